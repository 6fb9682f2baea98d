package model

// MenuDocument is the vendor's menu for one hall and one day: an ordered
// list of meal sections. Read-only once cached.
type MenuDocument []MealSection

type MealSection struct {
	Name   string      `json:"name"`
	Groups []ItemGroup `json:"groups"`
}

type ItemGroup struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type MenuItem struct {
	Name        string `json:"formalName"`
	Description string `json:"description"`
	Vegetarian  bool   `json:"isVegetarian"`
}

// ProjectedMenu is the display-ready slice of one meal with filters applied.
type ProjectedMenu struct {
	Hall   string
	Meal   string
	Groups []ProjectedGroup
}

type ProjectedGroup struct {
	Name  string
	Items []ProjectedItem
}

type ProjectedItem struct {
	Name        string
	Description string
}
