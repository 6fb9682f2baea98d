package menus

import "github.com/snackerbot/server/internal/bot/model"

// Project extracts one meal from entry. It returns false when the entry is a
// failure marker or has no section named exactly meal. With vegetarianOnly
// set, non-vegetarian items are dropped but their groups are kept.
func Project(hall model.HallID, entry model.CacheEntry, meal string, vegetarianOnly bool) (*model.ProjectedMenu, bool) {
	if entry.Failed() {
		return nil, false
	}

	var section *model.MealSection
	for i := range entry.Document {
		if entry.Document[i].Name == meal {
			section = &entry.Document[i]
			break
		}
	}
	if section == nil {
		return nil, false
	}

	out := &model.ProjectedMenu{
		Hall:   hall.DisplayName(),
		Meal:   meal,
		Groups: make([]model.ProjectedGroup, 0, len(section.Groups)),
	}
	for _, group := range section.Groups {
		pg := model.ProjectedGroup{Name: group.Name, Items: []model.ProjectedItem{}}
		for _, item := range group.Items {
			if vegetarianOnly && !item.Vegetarian {
				continue
			}
			pg.Items = append(pg.Items, model.ProjectedItem{Name: item.Name, Description: item.Description})
		}
		out.Groups = append(out.Groups, pg)
	}
	return out, true
}

// AvailableMeals lists the entry's meal names in vendor order.
func AvailableMeals(entry model.CacheEntry) []string {
	if entry.Failed() {
		return nil
	}
	meals := make([]string, 0, len(entry.Document))
	for _, section := range entry.Document {
		meals = append(meals, section.Name)
	}
	return meals
}
