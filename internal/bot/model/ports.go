package model

import (
	"context"
	"time"
)

// MenuFetcher retrieves one hall's menu document for a date from the vendor.
type MenuFetcher interface {
	FetchMenu(ctx context.Context, hall Hall, date Date) (MenuDocument, error)
}

// TokenRepository turns choice tokens into opaque strings and back.
type TokenRepository interface {
	// Encode stores or serialises the token and returns its opaque form.
	Encode(ctx context.Context, token ChoiceToken) (string, error)

	// Decode resolves an opaque string produced by Encode.
	Decode(ctx context.Context, raw string) (ChoiceToken, error)
}

// HallOutcome is the result of refreshing one hall.
type HallOutcome struct {
	Hall     HallID
	OK       bool
	Message  string
	Duration time.Duration
}

// RefreshReport summarises one refresh.
type RefreshReport struct {
	Date     Date
	Outcomes []HallOutcome
}

// Failed counts the halls whose fetch failed.
func (r RefreshReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK {
			n++
		}
	}
	return n
}
