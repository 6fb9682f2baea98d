package model

// HallID is the short identifier of a supported dining hall.
type HallID string

const (
	HallBARH    HallID = "barh"
	HallCommons HallID = "commons"
	HallBlitman HallID = "blitman"
	HallSage    HallID = "sage"
)

// Hall ties a hall id to its display name and vendor menu endpoint.
type Hall struct {
	ID          HallID
	DisplayName string
	// Endpoint is the vendor path below the menu base URL (location/menu ids).
	Endpoint string
}

var halls = []Hall{
	{ID: HallBARH, DisplayName: "BARH Dining Hall", Endpoint: "76929003/153626"},
	{ID: HallCommons, DisplayName: "The Commons Dining Hall", Endpoint: "76929001/153148"},
	{ID: HallBlitman, DisplayName: "Blitman Dining Hall", Endpoint: "76929015/153702"},
	{ID: HallSage, DisplayName: "Russell Sage Dining Hall", Endpoint: "76929002/153157"},
}

// Halls returns the supported halls in presentation order.
func Halls() []Hall {
	out := make([]Hall, len(halls))
	copy(out, halls)
	return out
}

// LookupHall resolves a hall by id.
func LookupHall(id HallID) (Hall, bool) {
	for _, h := range halls {
		if h.ID == id {
			return h, true
		}
	}
	return Hall{}, false
}

// DisplayName returns the hall's display name, or the raw id when unknown.
func (id HallID) DisplayName() string {
	if h, ok := LookupHall(id); ok {
		return h.DisplayName
	}
	return string(id)
}
