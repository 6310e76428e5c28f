// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/groqchat/internal/model"
	"github.com/jeranaias/groqchat/internal/nav"
	"github.com/jeranaias/groqchat/internal/session"
	"github.com/jeranaias/groqchat/internal/ui/components"
	"github.com/jeranaias/groqchat/internal/ui/styles"
	"github.com/jeranaias/groqchat/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Orange).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// COMMANDS
// =============================================================================

type replCommand struct {
	name  string
	usage string
	help  string
	pages []nav.Page // nil means every page
}

var replCommands = []replCommand{
	{"/start", "/start", "open the setup page", []nav.Page{nav.PageLanding}},
	{"/chat", "/chat", "go straight to chat", []nav.Page{nav.PageLanding}},
	{"/model", "/model [id|number]", "show or choose the model", []nav.Page{nav.PageSetup, nav.PageChat}},
	{"/temp", "/temp [0.0-1.0]", "show or set temperature", []nav.Page{nav.PageSetup, nav.PageChat}},
	{"/tokens", "/tokens [64-2048]", "show or set max tokens", []nav.Page{nav.PageSetup, nav.PageChat}},
	{"/save", "/save", "save settings", []nav.Page{nav.PageSetup}},
	{"/continue", "/continue", "save settings and go to chat", []nav.Page{nav.PageSetup}},
	{"/back", "/back", "back to the landing page, discarding edits", []nav.Page{nav.PageSetup}},
	{"/setup", "/setup", "open the setup page", []nav.Page{nav.PageChat}},
	{"/clear", "/clear", "clear the chat", []nav.Page{nav.PageChat}},
	{"/home", "/home", "back to the landing page", []nav.Page{nav.PageChat}},
	{"/status", "/status", "show session status", nil},
	{"/help", "/help", "show commands", nil},
	{"/quit", "/quit", "exit", nil},
}

func commandsFor(page nav.Page) []replCommand {
	var out []replCommand
	for _, c := range replCommands {
		if c.pages == nil {
			out = append(out, c)
			continue
		}
		for _, p := range c.pages {
			if p == page {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// =============================================================================
// REPL
// =============================================================================

// REPL is the line-based front end over a session.
type REPL struct {
	sess     *session.Session
	out      io.Writer
	markdown *components.Markdown
	// wrap is the column width for plain answers
	wrap int

	// draft holds setup page edits until /save or /continue
	draft model.Settings
}

// NewREPL creates a REPL writing to out. markdown may be nil for plain output.
// Plain answers wrap at ui.word_wrap, or the terminal width when that is 0.
func NewREPL(sess *session.Session, out io.Writer, markdown *components.Markdown) *REPL {
	wrap := sess.Config().UI.WordWrap
	if wrap == 0 {
		wrap = GetTerminalWidth()
	}
	return &REPL{
		sess:     sess,
		out:      out,
		markdown: markdown,
		wrap:     wrap,
		draft:    sess.Nav().Settings(),
	}
}

func runREPL(ctx context.Context, cmd *cobra.Command, opts *options, sess *session.Session) error {
	var md *components.Markdown
	cfg := sess.Config()
	if cfg.UI.Markdown && IsStdoutTTY() {
		md, _ = components.NewMarkdown(cfg.UI.Theme, GetTerminalWidth()-4)
	}

	r := NewREPL(sess, cmd.OutOrStdout(), md)
	reader := opts.newReader()
	defer reader.Close()

	// Ctrl+C while waiting for an answer cancels it; at the prompt liner handles it.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if sess.Chat().Cancel() {
				fmt.Fprintln(r.out, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	return r.Run(ctx, reader)
}

// Run prints the landing page and reads commands until /quit or end of input.
func (r *REPL) Run(ctx context.Context, reader LineReader) error {
	r.printPage()
	for {
		line, err := reader.ReadInput(promptStyle.Render(r.prompt()))
		if err != nil {
			// EOF, Ctrl+D or Ctrl+C at the prompt
			fmt.Fprintln(r.out)
			r.printSummary()
			return nil
		}
		if r.HandleLine(ctx, line) {
			r.printSummary()
			return nil
		}
	}
}

func (r *REPL) prompt() string {
	return "groqchat:" + r.sess.Nav().Page().String() + "> "
}

// HandleLine runs one line of input and reports whether the REPL should exit.
func (r *REPL) HandleLine(ctx context.Context, line string) bool {
	raw := line
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	r.sess.RecordActivity()
	if !strings.HasPrefix(line, "/") {
		r.ask(ctx, raw)
		return false
	}

	fields := strings.Fields(line)
	name, arg := fields[0], ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	machine := r.sess.Nav()
	switch name {
	case "/quit", "/q", "/exit":
		return true
	case "/help", "/h", "/?":
		r.printHelp()
	case "/status":
		r.printStatus()
	case "/start":
		r.navigate(machine.GetStarted)
	case "/chat":
		r.navigate(machine.GoToChat)
	case "/back":
		r.navigate(machine.Back)
	case "/home":
		r.navigate(machine.Home)
	case "/setup":
		if machine.Page() == nav.PageSetup {
			r.printSettings(r.draft)
			break
		}
		r.navigate(machine.OpenSetup)
	case "/save":
		if err := machine.SaveSettings(r.draft); err != nil {
			r.printErr(err)
			break
		}
		fmt.Fprintln(r.out, styles.RenderSuccess(components.SavedNotice))
	case "/continue":
		draft := r.draft
		r.navigate(func() error { return machine.Continue(draft) })
	case "/clear":
		if machine.Page() != nav.PageChat {
			r.printUnavailable(name)
			break
		}
		r.sess.Chat().Clear()
		fmt.Fprintln(r.out, infoStyle.Render("Chat cleared."))
	case "/model", "/temp", "/tokens":
		r.setting(name, arg)
	default:
		fmt.Fprintln(r.out, styles.RenderWarning("Unknown command "+name+". Type /help for commands."))
	}
	return false
}

// navigate applies a page change and prints the new page.
func (r *REPL) navigate(step func() error) {
	if err := step(); err != nil {
		if errors.Is(err, nav.ErrInvalidTransition) {
			fmt.Fprintln(r.out, styles.RenderWarning("Not available on the "+r.sess.Nav().Page().String()+" page."))
			r.printHelp()
			return
		}
		r.printErr(err)
		return
	}
	if r.sess.Nav().Page() == nav.PageSetup {
		r.draft = r.sess.Nav().Settings()
	}
	r.printPage()
}

// setting shows or changes one setting. On the setup page the draft is edited;
// on the chat page the change applies to the next message.
func (r *REPL) setting(name, arg string) {
	machine := r.sess.Nav()
	page := machine.Page()
	if page == nav.PageLanding {
		r.printUnavailable(name)
		return
	}

	current := machine.Settings()
	if page == nav.PageSetup {
		current = r.draft
	}
	if arg == "" {
		if name == "/model" {
			fmt.Fprint(r.out, model.FormatModelList(current.Model))
			return
		}
		r.printSettings(current)
		return
	}

	next, err := parseSetting(current, name, arg)
	if err != nil {
		r.printErr(err)
		return
	}
	if err := next.Validate(); err != nil {
		r.printErr(err)
		return
	}

	if page == nav.PageSetup {
		r.draft = next
		fmt.Fprintln(r.out, infoStyle.Render("Draft: "+next.String()+" (use /save or /continue)"))
		return
	}
	if err := machine.UpdateSettings(next); err != nil {
		r.printErr(err)
		return
	}
	fmt.Fprintln(r.out, infoStyle.Render("Now using "+next.String()))
}

// parseSetting returns current with the field named by cmd set from arg.
// A model may be given by ID or by its 1-based number in the list.
func parseSetting(current model.Settings, cmd, arg string) (model.Settings, error) {
	next := current
	switch cmd {
	case "/model":
		if n, err := strconv.Atoi(arg); err == nil {
			ids := model.ModelIDs()
			if n < 1 || n > len(ids) {
				return current, fmt.Errorf("model number must be 1-%d", len(ids))
			}
			arg = ids[n-1]
		}
		next.Model = arg
	case "/temp":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return current, fmt.Errorf("temperature must be a number: %q", arg)
		}
		if v >= model.MinTemperature && v <= model.MaxTemperature {
			v = model.SnapTemperature(v)
		}
		next.Temperature = v
	case "/tokens":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return current, fmt.Errorf("max tokens must be a whole number: %q", arg)
		}
		if v >= model.MinMaxTokens && v <= model.MaxMaxTokens {
			v = model.SnapMaxTokens(v)
		}
		next.MaxTokens = v
	}
	return next, nil
}

// ask sends a question from the chat page and prints the answer.
func (r *REPL) ask(ctx context.Context, text string) {
	if r.sess.Nav().Page() != nav.PageChat {
		fmt.Fprintln(r.out, styles.RenderWarning("Questions are sent from the chat page. Use /chat or /continue first."))
		return
	}

	fmt.Fprintln(r.out, infoStyle.Render("Generating..."))
	msg, err := r.sess.Send(ctx, text)
	if err != nil {
		r.printErr(err)
		return
	}

	fmt.Fprintln(r.out, titleStyle.Render(msg.Role().DisplayName()+":"))
	fmt.Fprintln(r.out, r.renderAnswer(msg.Content()))
	fmt.Fprintln(r.out)
}

func (r *REPL) renderAnswer(text string) string {
	if r.markdown != nil {
		return r.markdown.Render(text)
	}
	return util.Wrap(text, r.wrap)
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printErr(err error) {
	d := components.CategorizeError(err)
	fmt.Fprintln(r.out, styles.RenderError(d.Title+": "+d.Message))
	for _, s := range d.Suggestions {
		fmt.Fprintln(r.out, infoStyle.Render("  "+s))
	}
}

func (r *REPL) printUnavailable(name string) {
	fmt.Fprintln(r.out, styles.RenderWarning(name+" is not available on the "+r.sess.Nav().Page().String()+" page."))
}

func (r *REPL) printSettings(s model.Settings) {
	fmt.Fprintf(r.out, "  Model:       %s\n", s.Model)
	fmt.Fprintf(r.out, "  Temperature: %.2f\n", s.Temperature)
	fmt.Fprintf(r.out, "  Max tokens:  %d\n", s.MaxTokens)
}

func (r *REPL) printHelp() {
	page := r.sess.Nav().Page()
	fmt.Fprintln(r.out, titleStyle.Render("Commands on the "+page.String()+" page:"))
	for _, c := range commandsFor(page) {
		fmt.Fprintf(r.out, "  %-22s %s\n", commandStyle.Render(c.usage), infoStyle.Render(c.help))
	}
}

// printPage renders the current page as text.
func (r *REPL) printPage() {
	fmt.Fprintln(r.out)
	switch r.sess.Nav().Page() {
	case nav.PageLanding:
		fmt.Fprintln(r.out, titleStyle.Render("Groq-Powered Q&A Chatbot"))
		fmt.Fprintln(r.out, infoStyle.Render("Choose a model, tune generation settings, and chat."))
		fmt.Fprintln(r.out, infoStyle.Render("1) Start here  2) Configure model + parameters  3) Chat"))
	case nav.PageSetup:
		fmt.Fprintln(r.out, titleStyle.Render("Setup"))
		fmt.Fprintln(r.out, infoStyle.Render("Choose your model and generation settings. You can change these later anytime."))
		r.printSettings(r.draft)
	case nav.PageChat:
		fmt.Fprintln(r.out, titleStyle.Render("Chat"))
		fmt.Fprintln(r.out, infoStyle.Render("Ask anything. Your chat history stays in this session."))
		r.printSettings(r.sess.Nav().Settings())
		for _, msg := range r.sess.Chat().Transcript().Messages() {
			fmt.Fprintf(r.out, "%s %s\n", titleStyle.Render(msg.Role().DisplayName()+":"), msg.Preview(120))
		}
	}
	fmt.Fprintln(r.out)
	r.printHelp()
}

func (r *REPL) printStatus() {
	st := r.sess.GetStatus()
	fmt.Fprintf(r.out, "  Session:  %s\n", st.SessionID[:8])
	fmt.Fprintf(r.out, "  Page:     %s\n", st.Page)
	fmt.Fprintf(r.out, "  Settings: %s\n", st.Settings)
	fmt.Fprintf(r.out, "  Messages: %d\n", st.Messages)
	fmt.Fprintf(r.out, "  Uptime:   %s\n", session.FormatDuration(st.Duration))
	fmt.Fprintf(r.out, "  Idle:     %s\n", session.FormatDuration(st.Idle))
}

func (r *REPL) printSummary() {
	st := r.sess.GetStatus()
	fmt.Fprintln(r.out, infoStyle.Render(fmt.Sprintf("Session ended after %s with %d messages.",
		session.FormatDuration(st.Duration), st.Messages)))
}
