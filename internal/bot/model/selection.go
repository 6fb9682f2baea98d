package model

// State is the position of a selection in the hall → meal → menu flow.
type State string

const (
	StateAwaitingHall State = "awaiting_hall"
	StateAwaitingMeal State = "awaiting_meal"
	StateResolved     State = "resolved"
)

// Step names the kind of choice list a token was attached to.
type Step string

const (
	StepHall Step = "hall"
	StepMeal Step = "meal"
)

// SelectionContext is the per-interaction data threaded through a selection.
type SelectionContext struct {
	Hall       HallID
	Meal       string
	Vegetarian bool
}

// State derives the flow state from the fields that are known.
func (s SelectionContext) State() State {
	switch {
	case s.Hall == "":
		return StateAwaitingHall
	case s.Meal == "":
		return StateAwaitingMeal
	default:
		return StateResolved
	}
}

// ChoiceToken carries the state a choice list was offered with.
type ChoiceToken struct {
	Step       Step   `json:"step"`
	Hall       HallID `json:"hall,omitempty"`
	Vegetarian bool   `json:"vegetarian"`
}

// SelectionEvent is the graph input: either an initial request or a choice
// made from a previously offered list.
type SelectionEvent struct {
	// Initial request fields.
	Hall       HallID
	Meal       string
	Vegetarian bool

	// Choice fields; Token is nil for initial requests.
	Token    *ChoiceToken
	Selected string
}

// Context rebuilds the selection context the event describes.
func (e SelectionEvent) Context() SelectionContext {
	if e.Token == nil {
		return SelectionContext{Hall: e.Hall, Meal: e.Meal, Vegetarian: e.Vegetarian}
	}
	switch e.Token.Step {
	case StepHall:
		return SelectionContext{Hall: HallID(e.Selected), Vegetarian: e.Token.Vegetarian}
	default:
		return SelectionContext{Hall: e.Token.Hall, Meal: e.Selected, Vegetarian: e.Token.Vegetarian}
	}
}

// ReplyKind discriminates Reply.
type ReplyKind string

const (
	ReplyChoices ReplyKind = "choices"
	ReplyMessage ReplyKind = "message"
	ReplyMenu    ReplyKind = "menu"
)

// Choice is one option of a choice list.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Reply is the graph output.
type Reply struct {
	Kind ReplyKind
	// State is the flow state that produced the reply.
	State State

	// ReplyChoices
	Prompt  string
	Choices []Choice
	Token   *ChoiceToken

	// ReplyMessage
	Message string

	// ReplyMenu
	Menu *ProjectedMenu
}
