package types

// SeedSummary counts what a seed import wrote.
type SeedSummary struct {
	Categories   int `json:"categories"`
	Projects     int `json:"projects"`
	Tasks        int `json:"tasks"`
	Tags         int `json:"tags"`
	Associations int `json:"associations"`
}
