package delivery

import "github.com/Abubakarusba/scorelaship-bot/internal/catalog"

// SelectNext returns the first unposted row matching the category, in catalog
// order. The second return is false when the catalog is empty, nothing
// matches, or every match is already posted; callers treat that as a normal
// terminal state, not a failure.
func SelectNext(cat *catalog.Catalog, category string, threshold float64) (catalog.Item, bool) {
	for _, it := range Resolve(cat, category, threshold) {
		if !it.Opp.Posted {
			return it, true
		}
	}
	return catalog.Item{}, false
}
