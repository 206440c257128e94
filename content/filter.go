package content

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/professor0121/tmkoc-sub002/blogapi"
)

// Filter defaults. They are omitted from serialized URLs to keep them clean.
const (
	DefaultSortBy    = "publishedAt"
	DefaultSortOrder = "desc"
)

// Sort fields accepted by the backend.
var validSortFields = map[string]bool{
	"publishedAt": true,
	"views":       true,
	"likes":       true,
	"title":       true,
}

// Filter is the browse state of the public listing page. The URL query
// string is its serialized form: the URL seeds the filter on page load, and
// each in-page change is pushed back to the URL.
type Filter struct {
	Category  string
	Tags      []string // insertion-ordered, duplicate-free
	Search    string
	SortBy    string
	SortOrder string
	Page      int
}

// NewFilter returns a Filter with default sorting on page 1.
func NewFilter() Filter {
	return Filter{SortBy: DefaultSortBy, SortOrder: DefaultSortOrder, Page: 1}
}

// ParseQuery deserializes a URL query string into a Filter. Missing or
// invalid values fall back to the defaults.
func ParseQuery(q url.Values) Filter {
	f := NewFilter()
	f.Category = strings.TrimSpace(q.Get("category"))
	if tags := strings.TrimSpace(q.Get("tags")); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			f.addTag(t)
		}
	}
	f.Search = strings.TrimSpace(q.Get("search"))
	if sortBy := q.Get("sortBy"); validSortFields[sortBy] {
		f.SortBy = sortBy
	}
	if order := q.Get("sortOrder"); order == "asc" || order == "desc" {
		f.SortOrder = order
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 1 {
		f.Page = page
	}
	return f
}

// Values serializes the filter back to a URL query string. Defaults are
// omitted: page 1, and the default sort field and order.
func (f Filter) Values() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if len(f.Tags) > 0 {
		q.Set("tags", strings.Join(f.Tags, ","))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.SortBy != DefaultSortBy {
		q.Set("sortBy", f.SortBy)
	}
	if f.SortOrder != DefaultSortOrder {
		q.Set("sortOrder", f.SortOrder)
	}
	if f.Page > 1 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	return q
}

// Encode returns the filter as a raw query string.
func (f Filter) Encode() string {
	return f.Values().Encode()
}

// SetCategory changes the category filter and resets to page 1.
func (f *Filter) SetCategory(category string) {
	f.Category = strings.TrimSpace(category)
	f.Page = 1
}

// ToggleTag adds the tag if absent and removes it if present, keeping
// insertion order, and resets to page 1.
func (f *Filter) ToggleTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for i, t := range f.Tags {
		if t == tag {
			f.Tags = append(f.Tags[:i], f.Tags[i+1:]...)
			f.Page = 1
			return
		}
	}
	f.Tags = append(f.Tags, tag)
	f.Page = 1
}

// SetSearch changes the search query and resets to page 1.
func (f *Filter) SetSearch(query string) {
	f.Search = strings.TrimSpace(query)
	f.Page = 1
}

// SetSort changes the sort field and order and resets to page 1. Invalid
// values are ignored.
func (f *Filter) SetSort(sortBy, order string) {
	if validSortFields[sortBy] {
		f.SortBy = sortBy
	}
	if order == "asc" || order == "desc" {
		f.SortOrder = order
	}
	f.Page = 1
}

// SetPage moves to the given page. It is the one mutation that does not
// reset pagination.
func (f *Filter) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	f.Page = page
}

// addTag appends tag if not already present.
func (f *Filter) addTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, t := range f.Tags {
		if t == tag {
			return
		}
	}
	f.Tags = append(f.Tags, tag)
}

// params converts the filter into backend query parameters.
func (f Filter) params(limit int) blogapi.ListParams {
	return blogapi.ListParams{
		Page:      f.Page,
		Limit:     limit,
		Category:  f.Category,
		Tags:      f.Tags,
		Search:    f.Search,
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
	}
}
