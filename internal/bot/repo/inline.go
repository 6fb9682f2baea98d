package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/snackerbot/server/internal/bot/model"
	errx "github.com/snackerbot/server/internal/core/error"
)

const inlineSeparator = ":"

// InlineTokenRepository serialises the whole token into the opaque string:
// "hall:<vegetarian>" or "meal:<hall>:<vegetarian>". Nothing is stored.
type InlineTokenRepository struct{}

func NewInlineTokenRepository() *InlineTokenRepository {
	return &InlineTokenRepository{}
}

func (r *InlineTokenRepository) Encode(_ context.Context, token model.ChoiceToken) (string, error) {
	veg := strconv.FormatBool(token.Vegetarian)
	switch token.Step {
	case model.StepHall:
		return string(model.StepHall) + inlineSeparator + veg, nil
	case model.StepMeal:
		if strings.Contains(string(token.Hall), inlineSeparator) || token.Hall == "" {
			return "", fmt.Errorf("%w: hall %q", errx.ErrInvalidToken, token.Hall)
		}
		return string(model.StepMeal) + inlineSeparator + string(token.Hall) + inlineSeparator + veg, nil
	default:
		return "", fmt.Errorf("%w: step %q", errx.ErrInvalidToken, token.Step)
	}
}

func (r *InlineTokenRepository) Decode(_ context.Context, raw string) (model.ChoiceToken, error) {
	parts := strings.Split(strings.TrimSpace(raw), inlineSeparator)
	switch {
	case len(parts) == 2 && parts[0] == string(model.StepHall):
		veg, err := strconv.ParseBool(parts[1])
		if err != nil {
			return model.ChoiceToken{}, fmt.Errorf("%w: %q", errx.ErrInvalidToken, raw)
		}
		return model.ChoiceToken{Step: model.StepHall, Vegetarian: veg}, nil
	case len(parts) == 3 && parts[0] == string(model.StepMeal):
		veg, err := strconv.ParseBool(parts[2])
		if err != nil || parts[1] == "" {
			return model.ChoiceToken{}, fmt.Errorf("%w: %q", errx.ErrInvalidToken, raw)
		}
		return model.ChoiceToken{Step: model.StepMeal, Hall: model.HallID(parts[1]), Vegetarian: veg}, nil
	default:
		return model.ChoiceToken{}, fmt.Errorf("%w: %q", errx.ErrInvalidToken, raw)
	}
}

var _ model.TokenRepository = (*InlineTokenRepository)(nil)
