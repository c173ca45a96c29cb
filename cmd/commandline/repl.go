package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethanbaker/wikiai/internal/category"
	"github.com/ethanbaker/wikiai/internal/export"
	"github.com/ethanbaker/wikiai/internal/notify"
	"github.com/ethanbaker/wikiai/internal/session"
	"github.com/ethanbaker/wikiai/internal/transcript"
	"github.com/ethanbaker/wikiai/internal/upload"
	"github.com/ethanbaker/wikiai/pkg/trust"
	"github.com/fatih/color"
)

const help = `Commands:
  /category <je_veux|je_recherche|sources_fiables|activites>
  /subjects                      list the subject catalog
  /upload <path>                 attach a document to the next question
  /discard                       drop the attached document
  /export <id> <format> [title]  export an answer (pdf, docx, pptx, xlsx)
  /sources <url>...              rate the reliability of sources
  /history                       show the backend's record of this session
  /transcript                    show the conversation
  /help                          show this help
  exit                           quit`

var (
	promptColor    = color.New(color.FgCyan, color.Bold)
	assistantColor = color.New(color.FgGreen)
	errorColor     = color.New(color.FgRed)
	mutedColor     = color.New(color.Faint)

	tierColors = map[trust.Tier]*color.Color{
		trust.TierHigh:   color.New(color.FgGreen, color.Bold),
		trust.TierMedium: color.New(color.FgYellow, color.Bold),
		trust.TierLow:    color.New(color.FgRed, color.Bold),
	}
)

// repl reads commands and questions line by line. It is also the session's
// notifier so toasts appear inline
type repl struct {
	in  io.Reader
	out io.Writer
}

func newREPL(in io.Reader, out io.Writer) *repl {
	return &repl{in: in, out: out}
}

// Notify prints a notification
func (r *repl) Notify(n notify.Notification) {
	c := mutedColor
	if n.Kind == notify.KindError {
		c = errorColor
	}
	c.Fprintf(r.out, "  [%s] %s\n", n.Title, n.Text)
}

// Run starts the session and processes input until exit or EOF
func (r *repl) Run(ctx context.Context, sess *session.Session) error {
	catalog := sess.Start(ctx)

	fmt.Fprintln(r.out, "WikiAI started. Type /help for commands, 'exit' to quit.")
	fmt.Fprintf(r.out, "Session: %s\n", sess.ID())
	if catalog.Empty() {
		mutedColor.Fprintln(r.out, "Subject catalog unavailable.")
	}

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		c := sess.Category()
		promptColor.Fprintf(r.out, "\n[%s] %s\n> ", c.Label(), mutedColor.Sprint(c.Placeholder()))

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "exit" {
			break
		}
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			r.command(ctx, sess, input)
			continue
		}

		r.ask(ctx, sess, input)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// ask submits a question and prints the answer
func (r *repl) ask(ctx context.Context, sess *session.Session, input string) {
	res := sess.Submit(ctx, input)
	if res.Rejected {
		return
	}
	r.printMessage(res.Assistant)
}

func (r *repl) printMessage(m transcript.Message) {
	if !m.IsAssistant() {
		fmt.Fprintf(r.out, "#%d you: %s\n", m.ID, m.Text)
		return
	}

	assistantColor.Fprintf(r.out, "#%d assistant: ", m.ID)
	fmt.Fprintln(r.out, m.Text)

	if badge, ok := trust.BadgeFor(m.TrustScore); ok {
		tierColors[badge.Tier].Fprintf(r.out, "  confiance %s (%s)\n", badge.Label(), badge.Tier.Label())
	}
	if m.Exportable {
		mutedColor.Fprintf(r.out, "  /export %d pdf to save this answer\n", m.ID)
	}
}

// command runs a slash command
func (r *repl) command(ctx context.Context, sess *session.Session, input string) {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]

	switch name {
	case "/help":
		fmt.Fprintln(r.out, help)

	case "/category":
		if len(args) != 1 {
			r.fail(fmt.Errorf("usage: /category <%s>", joinCategories()))
			return
		}
		c, err := sess.SetCategory(args[0])
		if err != nil {
			r.fail(err)
			return
		}
		fmt.Fprintf(r.out, "Category: %s\n", c.Label())

	case "/subjects":
		catalog := sess.Catalog()
		if catalog.Empty() {
			fmt.Fprintln(r.out, "No subjects loaded.")
			return
		}
		for _, g := range catalog.Groups() {
			fmt.Fprintf(r.out, "%s: %s\n", g.Name, strings.Join(g.Subjects, ", "))
		}

	case "/upload":
		if len(args) == 0 {
			r.fail(errors.New("usage: /upload <path>"))
			return
		}
		attached, err := sess.Upload(ctx, strings.Join(args, " "))
		if err != nil {
			var verr *upload.ValidationError
			if errors.As(err, &verr) {
				r.fail(verr)
				return
			}
			r.fail(err)
			return
		}
		fmt.Fprintf(r.out, "📎 %s attached (%d characters). Your next question will be about it.\n", attached.DisplayName, attached.CharacterCount)

	case "/discard":
		if sess.Discard() {
			fmt.Fprintln(r.out, "Attachment discarded.")
		} else {
			fmt.Fprintln(r.out, "No attachment.")
		}

	case "/export":
		if len(args) < 2 {
			r.fail(errors.New("usage: /export <id> <format> [title]"))
			return
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			r.fail(fmt.Errorf("invalid message id %q", args[0]))
			return
		}
		d, err := sess.Export(ctx, id, args[1], strings.Join(args[2:], " "))
		if err != nil {
			if errors.Is(err, export.ErrUnsupportedFormat) {
				r.fail(fmt.Errorf("format must be one of %v", export.Formats))
				return
			}
			r.fail(err)
			return
		}
		fmt.Fprintf(r.out, "Saved %s\n", d.Location)

	case "/sources":
		if len(args) == 0 {
			r.fail(errors.New("usage: /sources <url>..."))
			return
		}
		sources, err := sess.AnalyzeSources(ctx, args)
		if err != nil {
			r.fail(err)
			return
		}
		for _, s := range sources {
			badge, _ := trust.BadgeFor(&s.TrustScore)
			tierColors[badge.Tier].Fprintf(r.out, "%s  ", badge.Label())
			fmt.Fprintf(r.out, "%s: %s, %s\n", s.URL, s.TrustLevel, s.Recommendation)
		}

	case "/history":
		entries, err := sess.History(ctx)
		if err != nil {
			r.fail(err)
			return
		}
		for _, e := range entries {
			fmt.Fprintf(r.out, "%s [%s] %s\n", e.Timestamp, e.MessageType, e.Message)
		}
		fmt.Fprintf(r.out, "%d exchanges recorded by the backend.\n", len(entries))

	case "/transcript":
		for _, m := range sess.Transcript().All() {
			r.printMessage(m)
		}

	default:
		r.fail(fmt.Errorf("unknown command %s (try /help)", name))
	}
}

func (r *repl) fail(err error) {
	errorColor.Fprintf(r.out, "Error: %v\n", err)
}

func joinCategories() string {
	names := make([]string, len(category.All))
	for i, c := range category.All {
		names[i] = string(c)
	}
	return strings.Join(names, "|")
}
