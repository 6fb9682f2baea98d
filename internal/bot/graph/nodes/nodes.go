package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/snackerbot/server/internal/bot/menus"
	"github.com/snackerbot/server/internal/bot/model"
	errx "github.com/snackerbot/server/internal/core/error"
	logx "github.com/snackerbot/server/pkg/logger"
)

const (
	NodeInputResolver = "InputResolver"
	NodeHallPrompt    = "HallPrompt"
	NodeMealPrompt    = "MealPrompt"
	NodeMenuResolver  = "MenuResolver"
	NodeUnknownHall   = "UnknownHall"
)

// NewInputResolverNode turns an inbound event into the selection context.
func NewInputResolverNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, ev model.SelectionEvent) (model.SelectionContext, error) {
		sc := ev.Context()
		logx.Debug().
			Str("hall", string(sc.Hall)).
			Str("meal", sc.Meal).
			Bool("vegetarian", sc.Vegetarian).
			Str("state", string(sc.State())).
			Msg("Selection resolved")
		return sc, nil
	})
}

// NewStateCondition routes a selection context to the node for its state.
func NewStateCondition() func(context.Context, model.SelectionContext) (string, error) {
	return func(ctx context.Context, sc model.SelectionContext) (string, error) {
		if sc.State() == model.StateAwaitingHall {
			return NodeHallPrompt, nil
		}
		if _, ok := model.LookupHall(sc.Hall); !ok {
			logx.Warn().Str("hall", string(sc.Hall)).Msg("Unknown hall requested")
			return NodeUnknownHall, nil
		}
		if sc.State() == model.StateAwaitingMeal {
			return NodeMealPrompt, nil
		}
		return NodeMenuResolver, nil
	}
}

// NewHallPromptNode offers the configured halls.
func NewHallPromptNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, sc model.SelectionContext) (model.Reply, error) {
		halls := model.Halls()
		choices := make([]model.Choice, 0, len(halls))
		for _, h := range halls {
			choices = append(choices, model.Choice{Label: h.DisplayName, Value: string(h.ID)})
		}
		return model.Reply{
			Kind:    model.ReplyChoices,
			State:   model.StateAwaitingHall,
			Prompt:  "Select a dining hall:",
			Choices: choices,
			Token:   &model.ChoiceToken{Step: model.StepHall, Vegetarian: sc.Vegetarian},
		}, nil
	})
}

// NewMealPromptNode offers the meals the hall serves today.
func NewMealPromptNode(reader *MenuReader) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, sc model.SelectionContext) (model.Reply, error) {
		hallName := sc.Hall.DisplayName()

		entry, err := reader.Entry(ctx, sc.Hall)
		if err != nil && !errors.Is(err, errx.ErrCacheStale) {
			return model.Reply{}, fmt.Errorf("read %s menu: %w", sc.Hall, err)
		}

		meals := menus.AvailableMeals(entry)
		if err != nil || len(meals) == 0 {
			return messageReply(model.StateAwaitingMeal, fmt.Sprintf("❌ No menus available for %s today.", hallName)), nil
		}

		choices := make([]model.Choice, 0, len(meals))
		for _, m := range meals {
			choices = append(choices, model.Choice{Label: m, Value: m})
		}
		return model.Reply{
			Kind:    model.ReplyChoices,
			State:   model.StateAwaitingMeal,
			Prompt:  fmt.Sprintf("Select a meal for %s:", hallName),
			Choices: choices,
			Token:   &model.ChoiceToken{Step: model.StepMeal, Hall: sc.Hall, Vegetarian: sc.Vegetarian},
		}, nil
	})
}

// NewMenuResolverNode projects the chosen meal.
func NewMenuResolverNode(reader *MenuReader) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, sc model.SelectionContext) (model.Reply, error) {
		unavailable := messageReply(model.StateResolved,
			fmt.Sprintf("❌ %s is not available at %s today.", sc.Meal, sc.Hall.DisplayName()))

		entry, err := reader.Entry(ctx, sc.Hall)
		if errors.Is(err, errx.ErrCacheStale) {
			return unavailable, nil
		}
		if err != nil {
			return model.Reply{}, fmt.Errorf("read %s menu: %w", sc.Hall, err)
		}

		menu, ok := menus.Project(sc.Hall, entry, sc.Meal, sc.Vegetarian)
		if !ok {
			logx.Debug().Str("hall", string(sc.Hall)).Str("meal", sc.Meal).Bool("failed_fetch", entry.Failed()).Msg("No menu for meal")
			return unavailable, nil
		}
		return model.Reply{Kind: model.ReplyMenu, State: model.StateResolved, Menu: menu}, nil
	})
}

// NewUnknownHallNode answers requests for halls outside the configured set.
func NewUnknownHallNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, sc model.SelectionContext) (model.Reply, error) {
		return messageReply(sc.State(), fmt.Sprintf("❌ %q is not a dining hall I know about.", string(sc.Hall))), nil
	})
}

func messageReply(state model.State, text string) model.Reply {
	return model.Reply{Kind: model.ReplyMessage, State: state, Message: text}
}
