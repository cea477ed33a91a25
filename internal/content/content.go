// Package content defines the shared records exchanged between the
// acquisition engine, the category strategies, and the serving boundary.
// Values are immutable once constructed and safe to hand across goroutines.
package content

// Category is the top-level content partition. Categories are a closed,
// compile-time-known set; resolution of anything else is a programmer error.
type Category string

// Known categories.
const (
	CategoryAnime    Category = "anime"
	CategoryMovie    Category = "movie"
	CategoryTVSeries Category = "tv"
)

// Categories lists all known categories in presentation order.
func Categories() []Category {
	return []Category{CategoryAnime, CategoryMovie, CategoryTVSeries}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAnime, CategoryMovie, CategoryTVSeries:
		return true
	}
	return false
}

// ParseCategory returns the category for a token, falling back to anime for
// absent or unrecognized values (the persisted-preference default).
func ParseCategory(token string) Category {
	c := Category(token)
	if c.Valid() {
		return c
	}
	return CategoryAnime
}

// Record is the unit returned to callers for one round.
//
// ID is provider-scoped, not globally unique across providers. Either
// PrimaryName or SecondaryName may be empty but not both. Screenshots are
// already randomly permuted and capped at the round length.
type Record struct {
	ID            int      `json:"id"`
	PrimaryName   string   `json:"primaryName"`
	SecondaryName string   `json:"secondaryName"`
	PosterImage   string   `json:"posterImage,omitempty"`
	Screenshots   []string `json:"screenshots"`
	DetailURL     string   `json:"detailUrl"`
	Category      Category `json:"category"`
}

// Candidate is a catalog item considered during acquisition before its image
// sufficiency is known. Produced by discovery, consumed by the engine.
type Candidate struct {
	ID            int
	PrimaryName   string
	SecondaryName string
	PosterImage   string
	DetailURL     string
}

// SearchResult is one autocomplete suggestion. Discarded after selection.
type SearchResult struct {
	ID            int      `json:"id"`
	PrimaryName   string   `json:"primaryName"`
	SecondaryName string   `json:"secondaryName"`
	PreviewImage  string   `json:"previewImage,omitempty"`
	Category      Category `json:"category"`
}

// FilterOption is one selectable value for a filter.
type FilterOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// FilterDescriptor describes one filter a category supports, for clients
// rendering a filter panel. Dynamic filters have their options fetched from
// the provider at runtime instead of carrying a static list.
type FilterDescriptor struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Type        string         `json:"type"`
	Options     []FilterOption `json:"options,omitempty"`
	Min         float64        `json:"min,omitempty"`
	Max         float64        `json:"max,omitempty"`
	Step        float64        `json:"step,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Dynamic     bool           `json:"dynamic,omitempty"`
}

// DynamicOption is one entry of a provider-fetched option list
// (genres, countries).
type DynamicOption struct {
	ID    any    `json:"id"`
	Label string `json:"label"`
}
