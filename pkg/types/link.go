package types

// LinkStatus describes what happened to a single link entry
type LinkStatus string

const (
	// LinkCreated means a new symlink was created
	LinkCreated LinkStatus = "created"
	// LinkSkipped means an entry of that name already existed at the destination
	LinkSkipped LinkStatus = "skipped"
	// LinkPlanned means the symlink would have been created (dry run)
	LinkPlanned LinkStatus = "would-create"
)

// LinkResult is the outcome of materializing one module into the destination
type LinkResult struct {
	Name   string     `json:"name" yaml:"name"`
	Source string     `json:"source" yaml:"source"`
	Target string     `json:"target" yaml:"target"`
	Status LinkStatus `json:"status" yaml:"status"`
}

// CountByStatus tallies results per status
func CountByStatus(results []LinkResult) map[LinkStatus]int {
	counts := make(map[LinkStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}
