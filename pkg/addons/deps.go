package addons

import (
	"sort"

	"github.com/arthur-debert/addonlink/pkg/types"
)

// AggregateDepends returns the union of the dependency lists of every module
// in set, deduplicated and sorted.
func AggregateDepends(set types.ModuleSet) []string {
	seen := make(map[string]bool)
	result := []string{}
	for _, module := range set.Sorted() {
		for _, dep := range module.Depends {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			result = append(result, dep)
		}
	}
	sort.Strings(result)
	return result
}

// Missing returns the names in depends that are not modules of set
func Missing(depends []string, set types.ModuleSet) []string {
	var missing []string
	for _, dep := range depends {
		if !set.Has(dep) {
			missing = append(missing, dep)
		}
	}
	return missing
}
