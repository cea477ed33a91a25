package kinopoisk

import (
	"net/url"
	"strconv"

	"github.com/frameguessr/frameguessr-server/internal/content"
)

// normalize converts a generic filter set into Kinopoisk query parameters.
// Unrecognized keys are dropped. The API accepts exactly one genre and one
// country per request, so arrays narrow to their first element on purpose.
func normalize(filters content.FilterSet) url.Values {
	query := url.Values{}
	query.Set("order", "RATING")
	query.Set("type", "TV_SERIES")

	if genres := filters.Strings("genres"); len(genres) > 0 {
		query.Set("genres", genres[0])
	}
	if countries := filters.Strings("countries"); len(countries) > 0 {
		query.Set("countries", countries[0])
	}

	if order := filters.String("order"); order != "" {
		query.Set("order", order)
	}

	// ALL removes the type constraint instead of being sent literally.
	switch t := filters.String("type"); t {
	case "":
	case "ALL":
		query.Del("type")
	default:
		query.Set("type", t)
	}

	// Zero bounds mean "no constraint", same as absent.
	if v, ok := filters.Number("ratingFrom"); ok {
		query.Set("ratingFrom", formatNumber(v))
	}
	if v, ok := filters.Number("ratingTo"); ok {
		query.Set("ratingTo", formatNumber(v))
	}
	if v, ok := filters.Number("yearFrom"); ok {
		query.Set("yearFrom", formatNumber(v))
	}
	if v, ok := filters.Number("yearTo"); ok {
		query.Set("yearTo", formatNumber(v))
	}

	return query
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
