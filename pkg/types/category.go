package types

// DefaultColor is assigned to categories and tags created without a color.
const DefaultColor = "#FF0000"

// Category groups projects under a colored heading. Categories are owned
// independently; a project references at most one.
type Category struct {
	ID    int64  `json:"id" validate:"gte=0"`
	Title string `json:"title"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// NewCategory returns an unsaved category. An empty color falls back to
// DefaultColor.
func NewCategory(title, color string) *Category {
	if color == "" {
		color = DefaultColor
	}
	return &Category{Title: title, Color: color}
}

func (c *Category) String() string { return c.Title }

// CategoryTaskCount pairs a category with the number of tasks filed under
// projects of that category.
type CategoryTaskCount struct {
	Category  *Category `json:"category"`
	TaskCount int       `json:"task_count"`
}
