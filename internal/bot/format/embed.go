package format

import (
	"fmt"
	"strings"

	"github.com/snackerbot/server/internal/bot/model"
)

// EmbedColor is the accent color of menu embeds.
const EmbedColor = 0x0099FF

// Embed is a renderable menu card: bold title, markdown body, accent color.
type Embed struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Color int    `json:"color"`
}

// MenuEmbed renders a projected menu. Each group is a bold heading followed
// by bulleted items with their descriptions indented underneath.
func MenuEmbed(menu model.ProjectedMenu) Embed {
	var body strings.Builder
	for _, group := range menu.Groups {
		fmt.Fprintf(&body, "**%s**\n", group.Name)
		for _, item := range group.Items {
			fmt.Fprintf(&body, "• %s\n", item.Name)
			fmt.Fprintf(&body, "  %s\n\n", item.Description)
		}
	}
	return Embed{
		Title: fmt.Sprintf("🍽️ **%s - %s**", menu.Hall, menu.Meal),
		Body:  body.String(),
		Color: EmbedColor,
	}
}
