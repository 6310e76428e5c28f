// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/groqchat/internal/config"
	"github.com/jeranaias/groqchat/internal/llm"
	"github.com/jeranaias/groqchat/internal/logger"
	"github.com/jeranaias/groqchat/internal/session"
	"github.com/jeranaias/groqchat/internal/ui/app"
	"github.com/jeranaias/groqchat/internal/ui/styles"
)

// =============================================================================
// OPTIONS
// =============================================================================

// GeneratorFactory builds the chat-completions client for a loaded config.
type GeneratorFactory func(ctx context.Context, cfg *config.Config, log *slog.Logger) (llm.Generator, error)

// options holds the persistent flags plus the collaborators commands share.
type options struct {
	configPath  string
	debug       bool
	plain       bool
	model       string
	temperature float64
	maxTokens   int

	version      string
	newGenerator GeneratorFactory
	newReader    func() LineReader
}

// defaultGenerator requires an API key and builds an llm.Client from cfg.
func defaultGenerator(ctx context.Context, cfg *config.Config, log *slog.Logger) (llm.Generator, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llm.ClientConfig{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.API.BaseURL,
		DefaultModel:      cfg.Defaults.Model,
		Timeout:           cfg.API.Timeout(),
		RequestsPerMinute: cfg.API.RequestsPerMinute,
		Burst:             cfg.API.Burst,
		Logger:            log,
	})
	if err != nil {
		return nil, &config.ConfigurationError{Message: "cannot create API client", Cause: err}
	}
	return client, nil
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&options{
		version:      version,
		newGenerator: defaultGenerator,
		newReader:    func() LineReader { return NewChatCLI() },
	})
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "groqchat",
		Short: "Groq-powered Q&A chat for the terminal",
		Long: `groqchat is a small Q&A chatbot backed by the Groq API.
Start on the landing page, pick a model and generation settings on the
setup page, then chat. Each question is answered on its own.`,
		Version:       opts.version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.groqchat/config.toml)")
	pf.BoolVar(&opts.debug, "debug", false, "debug logging")
	pf.StringVarP(&opts.model, "model", "m", "", "model to start with")
	pf.Float64VarP(&opts.temperature, "temperature", "t", 0, "sampling temperature to start with (0.0-1.0)")
	pf.IntVar(&opts.maxTokens, "max-tokens", 0, "completion budget to start with (64-2048)")
	root.Flags().BoolVar(&opts.plain, "plain", false, "line-based REPL instead of the full screen UI")

	root.AddCommand(newAskCommand(opts))
	root.AddCommand(newConfigCommand(opts))
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	lipgloss.SetColorProfile(GetColorProfile())
	if err := NewRootCommand(version).Execute(); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

// printError writes err to w, splitting a configuration error's hint onto its own line.
func printError(w io.Writer, err error) {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		msg := cfgErr.Message
		if cfgErr.Cause != nil {
			msg += ": " + cfgErr.Cause.Error()
		}
		fmt.Fprintln(w, styles.RenderError(msg))
		if cfgErr.Hint != "" {
			fmt.Fprintln(w, styles.RenderInfo(cfgErr.Hint))
		}
		return
	}
	fmt.Fprintln(w, styles.RenderError(err.Error()))
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// runtime is everything a command needs once config is loaded.
type runtime struct {
	cfg *config.Config
	log *logger.Logger
	gen llm.Generator
}

func (r *runtime) Close() {
	if r.log != nil {
		_ = r.log.Close()
	}
}

// bootstrap loads config, applies flag overrides, opens the log and builds the
// generator. Any failure here happens before a UI is shown.
func bootstrap(ctx context.Context, cmd *cobra.Command, opts *options) (*runtime, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlagOverrides(cmd, opts, cfg); err != nil {
		return nil, err
	}

	logOpts := logger.Options{Level: cfg.Log.Level, Debug: opts.debug}
	if cfg.Log.Enabled {
		if logOpts.Path, err = cfg.LogPath(); err != nil {
			return nil, err
		}
	}
	log, err := logger.Open(logOpts)
	if err != nil {
		return nil, err
	}

	gen, err := opts.newGenerator(ctx, cfg, log.WithComponent("llm"))
	if err != nil {
		log.Error("startup failed", "error", err)
		_ = log.Close()
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, gen: gen}, nil
}

// applyFlagOverrides seeds the starting settings from --model, --temperature
// and --max-tokens. Only flags the user actually set are applied.
func applyFlagOverrides(cmd *cobra.Command, opts *options, cfg *config.Config) error {
	flags := cmd.Flags()
	s := cfg.Defaults
	if flags.Changed("model") {
		s.Model = opts.model
	}
	if flags.Changed("temperature") {
		s.Temperature = opts.temperature
	}
	if flags.Changed("max-tokens") {
		s.MaxTokens = opts.maxTokens
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid flag: %w", err)
	}
	cfg.Defaults = s
	return nil
}

// signalContext is canceled on SIGTERM. Interrupts are left to the UI.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGTERM)
}

// =============================================================================
// INTERACTIVE
// =============================================================================

func runInteractive(cmd *cobra.Command, opts *options) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	rt, err := bootstrap(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	sess := session.New(rt.cfg, rt.gen, rt.log.Logger)
	defer sess.Close()

	if opts.plain || !IsTTY() || !IsStdoutTTY() {
		return runREPL(ctx, cmd, opts, sess)
	}

	m := app.New(sess, app.Options{Context: ctx, Version: opts.version})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
