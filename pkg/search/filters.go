package search

import (
	"regexp"
	"strings"
)

// FilterHelper manipulates field:value filters inside a search bar query so
// key bindings can cycle filters without the admin typing them.
type FilterHelper struct{}

// NewFilterHelper creates a new filter helper
func NewFilterHelper() *FilterHelper {
	return &FilterHelper{}
}

// CycleFilter cycles key through: all -> values[0] -> ... -> values[n-1] -> all
func (fh *FilterHelper) CycleFilter(query, key string, values []string) string {
	current := fh.ExtractFilter(query, key)

	// Index 0 is "all"
	order := append([]string{""}, values...)
	currentIndex := 0
	for i, v := range order {
		if v == current {
			currentIndex = i
			break
		}
	}
	next := order[(currentIndex+1)%len(order)]

	return fh.SetFilter(query, key, next)
}

// SetFilter replaces any key filter with value. An empty value or "all"
// removes the filter.
func (fh *FilterHelper) SetFilter(query, key, value string) string {
	query = fh.RemoveFilter(query, key)
	if value == "" || strings.EqualFold(value, AllValue) {
		return query
	}
	if strings.Contains(value, " ") {
		value = `"` + value + `"`
	}
	return fh.appendFilter(query, key+":"+value)
}

// ExtractFilter returns the current value for key (or empty string if none)
func (fh *FilterHelper) ExtractFilter(query, key string) string {
	re := regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(key) + `:("[^"]*"|\S+)`)
	matches := re.FindStringSubmatch(query)
	if len(matches) > 1 {
		return strings.Trim(matches[1], `"`)
	}
	return ""
}

// RemoveFilter removes any key:value filter from the query
func (fh *FilterHelper) RemoveFilter(query, key string) string {
	re := regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(key) + `:("[^"]*"|\S+)`)
	result := re.ReplaceAllString(query, " ")
	return fh.cleanupSpaces(result)
}

// CurrentFilters returns the active filters for display, in key order
func (fh *FilterHelper) CurrentFilters(query string, keys []string) []string {
	var filters []string
	for _, key := range keys {
		if v := fh.ExtractFilter(query, key); v != "" {
			filters = append(filters, strings.ToUpper(key[:1])+key[1:]+": "+v)
		}
	}
	return filters
}

// appendFilter adds a filter to the query with proper spacing
func (fh *FilterHelper) appendFilter(query, filter string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return filter
	}
	return query + " " + filter
}

// cleanupSpaces removes extra spaces and trims the result
func (fh *FilterHelper) cleanupSpaces(s string) string {
	re := regexp.MustCompile(`\s+`)
	s = re.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
