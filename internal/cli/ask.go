// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/groqchat/internal/chat"
	"github.com/jeranaias/groqchat/internal/ui/components"
)

// maxStdinQuestion bounds a question piped on stdin.
const maxStdinQuestion = 64 * 1024

func newAskCommand(opts *options) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Long: `Ask sends one question with the configured (or flag) settings and
prints the answer. With no arguments the question is read from stdin.`,
		Example: `  groqchat ask "What is the capital of France?"
  groqchat ask -m llama-3.3-70b-versatile -t 0.2 "Explain TCP slow start"
  echo "Summarize the Go memory model" | groqchat ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				q, err := readQuestion(cmd.InOrStdin())
				if err != nil {
					return err
				}
				question = q
			}
			if question == "" {
				return errors.New("no question given")
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			rt, err := bootstrap(ctx, cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			session := chat.NewSession(rt.gen, rt.log.WithComponent("ask"))
			msg, err := session.Submit(ctx, question, rt.cfg.Defaults)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			answer := msg.Content()
			if !raw && rt.cfg.UI.Markdown && out == io.Writer(os.Stdout) && IsStdoutTTY() {
				if md, err := components.NewMarkdown(rt.cfg.UI.Theme, GetTerminalWidth()-2); err == nil {
					answer = md.Render(answer)
				}
			}
			fmt.Fprintln(out, answer)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the answer without markdown rendering")
	return cmd
}

// readQuestion reads a question from r unless r is an interactive terminal.
func readQuestion(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok && f == os.Stdin && IsTTY() {
		return "", nil
	}
	data, err := io.ReadAll(io.LimitReader(r, maxStdinQuestion))
	if err != nil {
		return "", fmt.Errorf("failed to read question from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
