package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/snackerbot/server/internal/bot/dispatch"
	"github.com/snackerbot/server/internal/bot/format"
	"github.com/snackerbot/server/internal/bot/model"
)

const help = `commands:
  menu [hall] [meal] [veg]   start a selection (e.g. "menu commons Lunch veg")
  <n> | <value>              pick from the last list
  refresh                    refresh the menu cache
  quit`

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(fmt.Sprintf("#%06X", format.EmbedColor)))
	promptStyle = lipgloss.NewStyle().Bold(true)
	choiceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Session drives the dispatcher from a line-based terminal.
type Session struct {
	dispatcher *dispatch.Dispatcher
	out        io.Writer
	pending    *dispatch.Response
}

func NewSession(d *dispatch.Dispatcher, out io.Writer) *Session {
	return &Session{dispatcher: d, out: out}
}

// Run reads commands from in until EOF or "quit".
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, help)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}
		s.Handle(ctx, line)
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Handle runs one command line and prints the response.
func (s *Session) Handle(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "menu":
		s.show(s.dispatcher.HandleCommand(ctx, parseCommand(fields[1:])))
	case "refresh":
		s.show(s.dispatcher.HandleRefresh(ctx))
	case "help":
		fmt.Fprintln(s.out, help)
	default:
		if s.pending == nil {
			fmt.Fprintln(s.out, "nothing to choose from; start with \"menu\"")
			return
		}
		value, ok := pick(s.pending.Choices, line)
		if !ok {
			fmt.Fprintf(s.out, "%q is not one of the options\n", line)
			return
		}
		s.show(s.dispatcher.HandleChoice(ctx, dispatch.ChoiceEvent{Token: s.pending.Token, Selected: value}))
	}
}

func parseCommand(args []string) dispatch.CommandEvent {
	var ev dispatch.CommandEvent
	for _, a := range args {
		switch {
		case a == "veg" || a == "vegetarian":
			ev.Vegetarian = true
		case ev.Hall == "":
			ev.Hall = a
		case ev.Meal == "":
			ev.Meal = a
		}
	}
	return ev
}

// pick resolves a 1-based index or a choice value/label.
func pick(choices []model.Choice, input string) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(choices) {
			return "", false
		}
		return choices[n-1].Value, true
	}
	for _, c := range choices {
		if strings.EqualFold(c.Value, input) || strings.EqualFold(c.Label, input) {
			return c.Value, true
		}
	}
	return "", false
}

func (s *Session) show(resp dispatch.Response) {
	s.pending = nil
	switch resp.Kind {
	case model.ReplyChoices:
		fmt.Fprintln(s.out, promptStyle.Render(resp.Content))
		for i, c := range resp.Choices {
			fmt.Fprintln(s.out, choiceStyle.Render(fmt.Sprintf("  %d) %s", i+1, c.Label)))
		}
		s.pending = &resp
	case model.ReplyMenu:
		title := strings.ReplaceAll(resp.Embed.Title, "**", "")
		fmt.Fprintln(s.out, titleStyle.Render(title))
		fmt.Fprintln(s.out, strings.ReplaceAll(resp.Embed.Body, "**", ""))
	default:
		fmt.Fprintln(s.out, resp.Content)
	}
}
