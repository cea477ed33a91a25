package tmdb

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/frameguessr/frameguessr-server/internal/content"
)

// normalize converts a generic filter set into TMDB discover parameters.
// Unrecognized keys are dropped. With no explicit sort the catalog is ordered
// by vote average with a vote-count floor, so top pages are not dominated by
// obscure titles rated 10.0 by three voters.
func normalize(filters content.FilterSet) url.Values {
	query := url.Values{}
	query.Set("language", "en-US")
	query.Set("include_adult", "false")
	query.Set("include_video", "false")

	if genres := filters.Strings("with_genres"); len(genres) > 0 {
		query.Set("with_genres", strings.Join(genres, ","))
	}

	// The API accepts a single origin country; an array narrows to its
	// first element on purpose.
	if countries := filters.Strings("with_origin_country"); len(countries) > 0 {
		query.Set("with_origin_country", countries[0])
	}

	// Zero rating bounds mean "no constraint", same as absent.
	if v, ok := filters.Number("vote_average.gte"); ok {
		query.Set("vote_average.gte", formatNumber(v))
	}
	if v, ok := filters.Number("vote_average.lte"); ok {
		query.Set("vote_average.lte", formatNumber(v))
	}

	if d := filters.String("primary_release_date.gte"); d != "" {
		query.Set("primary_release_date.gte", d)
	}
	if d := filters.String("primary_release_date.lte"); d != "" {
		query.Set("primary_release_date.lte", d)
	}

	if sortBy := filters.String("sort_by"); sortBy != "" {
		query.Set("sort_by", sortBy)
	} else {
		query.Set("sort_by", "vote_average.desc")
		query.Set("vote_count.gte", "100")
	}

	if lang := filters.String("with_original_language"); lang != "" {
		query.Set("with_original_language", lang)
	}

	return query
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
