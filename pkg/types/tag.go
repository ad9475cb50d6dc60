package types

// Tag is a shared label. The same tag may be associated with any number of
// projects through ProjectTag rows.
type Tag struct {
	ID    int64  `json:"id" validate:"gte=0"`
	Title string `json:"title"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// NewTag returns an unsaved tag. An empty color falls back to DefaultColor.
func NewTag(title, color string) *Tag {
	if color == "" {
		color = DefaultColor
	}
	return &Tag{Title: title, Color: color}
}

func (t *Tag) String() string { return t.Title }

// ProjectTag is the join row linking one project to one tag. At most one row
// exists per (ProjectID, TagID) pair.
type ProjectTag struct {
	ID        int64 `json:"id"`
	ProjectID int64 `json:"project_id"`
	TagID     int64 `json:"tag_id"`
}
