package tmdb

import "github.com/frameguessr/frameguessr-server/internal/content"

// Countries returns the curated origin-country options (ISO 3166-1 codes).
// TMDB exposes no "popular countries" endpoint, so the list is static.
func Countries() []content.DynamicOption {
	return []content.DynamicOption{
		{ID: "US", Label: "United States"},
		{ID: "GB", Label: "United Kingdom"},
		{ID: "FR", Label: "France"},
		{ID: "DE", Label: "Germany"},
		{ID: "IT", Label: "Italy"},
		{ID: "ES", Label: "Spain"},
		{ID: "JP", Label: "Japan"},
		{ID: "KR", Label: "South Korea"},
		{ID: "CN", Label: "China"},
		{ID: "IN", Label: "India"},
		{ID: "RU", Label: "Russia"},
		{ID: "CA", Label: "Canada"},
		{ID: "AU", Label: "Australia"},
		{ID: "BR", Label: "Brazil"},
		{ID: "MX", Label: "Mexico"},
		{ID: "AR", Label: "Argentina"},
		{ID: "SE", Label: "Sweden"},
		{ID: "NO", Label: "Norway"},
		{ID: "DK", Label: "Denmark"},
		{ID: "NL", Label: "Netherlands"},
		{ID: "BE", Label: "Belgium"},
		{ID: "CH", Label: "Switzerland"},
		{ID: "AT", Label: "Austria"},
		{ID: "PL", Label: "Poland"},
		{ID: "TR", Label: "Turkey"},
		{ID: "TH", Label: "Thailand"},
		{ID: "HK", Label: "Hong Kong"},
		{ID: "TW", Label: "Taiwan"},
		{ID: "SG", Label: "Singapore"},
		{ID: "NZ", Label: "New Zealand"},
	}
}
