package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snackerbot/server/internal/bot/format"
	"github.com/snackerbot/server/internal/bot/graph"
	"github.com/snackerbot/server/internal/bot/model"
	errx "github.com/snackerbot/server/internal/core/error"
	logx "github.com/snackerbot/server/pkg/logger"
)

const (
	GenericFailureMessage = "❌ Something went wrong while getting menus. Please try again."
	ExpiredChoiceMessage  = "⌛ That selection has expired. Please start over."
	RefreshDoneMessage    = "✅ Menu cache updated!"
)

// CommandEvent is an initial request with optional pre-filled fields.
type CommandEvent struct {
	Hall       string
	Meal       string
	Vegetarian bool
}

// ChoiceEvent is a pick from a previously offered choice list.
type ChoiceEvent struct {
	Token    string
	Selected string
}

// Response is what the chat platform should show.
type Response struct {
	Kind    model.ReplyKind `json:"kind"`
	Content string          `json:"content,omitempty"`
	Choices []model.Choice  `json:"choices,omitempty"`
	// Token is attached to Choices and comes back in the next ChoiceEvent.
	Token string        `json:"token,omitempty"`
	Embed *format.Embed `json:"embed,omitempty"`
	// Status is the HTTP status of a failure; zero on success.
	Status int `json:"-"`
}

// Refresher is the manual refresh entry point.
type Refresher interface {
	Refresh(ctx context.Context, today model.Date) model.RefreshReport
	Today() model.Date
}

// Renderer formats a projected menu.
type Renderer func(model.ProjectedMenu) format.Embed

// Dispatcher is the inbound event surface. Every handler returns a Response;
// errors and panics become the generic failure message.
type Dispatcher struct {
	runner    graph.Runner
	tokens    model.TokenRepository
	refresher Refresher
	render    Renderer
}

func New(runner graph.Runner, tokens model.TokenRepository, refresher Refresher, render Renderer) *Dispatcher {
	if render == nil {
		render = format.MenuEmbed
	}
	return &Dispatcher{runner: runner, tokens: tokens, refresher: refresher, render: render}
}

// HandleCommand starts a selection from an initial request.
func (d *Dispatcher) HandleCommand(ctx context.Context, ev CommandEvent) (resp Response) {
	defer d.recoverInto(&resp, "command")

	reply, err := d.runner.Invoke(ctx, model.SelectionEvent{
		Hall:       model.HallID(strings.TrimSpace(ev.Hall)),
		Meal:       strings.TrimSpace(ev.Meal),
		Vegetarian: ev.Vegetarian,
	})
	if err != nil {
		return failure(err, "command")
	}
	return d.respond(ctx, reply)
}

// HandleChoice continues a selection from a choice event.
func (d *Dispatcher) HandleChoice(ctx context.Context, ev ChoiceEvent) (resp Response) {
	defer d.recoverInto(&resp, "choice")

	token, err := d.tokens.Decode(ctx, ev.Token)
	if errors.Is(err, errx.ErrTokenExpired) {
		return Response{Kind: model.ReplyMessage, Content: ExpiredChoiceMessage}
	}
	if err != nil {
		return failure(err, "choice")
	}

	reply, err := d.runner.Invoke(ctx, model.SelectionEvent{Token: &token, Selected: strings.TrimSpace(ev.Selected)})
	if err != nil {
		return failure(err, "choice")
	}
	return d.respond(ctx, reply)
}

// HandleRefresh refreshes the cache unconditionally and reports completion.
func (d *Dispatcher) HandleRefresh(ctx context.Context) (resp Response) {
	defer d.recoverInto(&resp, "refresh")

	report := d.refresher.Refresh(ctx, d.refresher.Today())
	content := RefreshDoneMessage
	if failed := report.Failed(); failed > 0 {
		content = fmt.Sprintf("%s (%d of %d halls unavailable)", content, failed, len(report.Outcomes))
	}
	return Response{Kind: model.ReplyMessage, Content: content}
}

func (d *Dispatcher) respond(ctx context.Context, reply model.Reply) Response {
	switch reply.Kind {
	case model.ReplyChoices:
		resp := Response{Kind: reply.Kind, Content: reply.Prompt, Choices: reply.Choices}
		if reply.Token != nil {
			raw, err := d.tokens.Encode(ctx, *reply.Token)
			if err != nil {
				return failure(err, "encode token")
			}
			resp.Token = raw
		}
		return resp
	case model.ReplyMenu:
		if reply.Menu == nil {
			return failure(fmt.Errorf("menu reply without menu"), "render")
		}
		embed := d.render(*reply.Menu)
		return Response{Kind: reply.Kind, Embed: &embed}
	default:
		return Response{Kind: model.ReplyMessage, Content: reply.Message}
	}
}

func (d *Dispatcher) recoverInto(resp *Response, event string) {
	if r := recover(); r != nil {
		*resp = failure(fmt.Errorf("panic: %v", r), event)
	}
}

func failure(err error, event string) Response {
	logx.Error().Err(err).Str("event", event).Msg("Failed to handle event")
	return Response{Kind: model.ReplyMessage, Content: GenericFailureMessage, Status: errx.StatusOf(err)}
}
