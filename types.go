package travelblog

import (
	"github.com/professor0121/tmkoc-sub002/authoring"
	"github.com/professor0121/tmkoc-sub002/blogapi"
	"github.com/professor0121/tmkoc-sub002/content"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	Keywords    string
	URL         string // canonical + og:url
	Image       string // og:image, absolute
	OGType      string // "website" or "article"
}

// BlogListData is everything the listing page template needs: the committed
// result slice, the active filter, and the aggregates feeding the filter
// widgets. Result.Err non-empty means the template shows the error panel.
type BlogListData struct {
	Result       content.ListState
	Filter       content.Filter
	Categories   []blogapi.CategoryCount
	Tags         []blogapi.TagCount
	SearchActive bool
	Meta         PageMeta
	JSONLD       string
	CSRFToken    string
}

// BlogPostData feeds the detail page template. Related may be empty when
// the related fetch failed; the page renders without it.
type BlogPostData struct {
	Post    *blogapi.Post
	Related []blogapi.Post
	Meta    PageMeta
	JSONLD  string
}

// EditorData feeds the admin post editor.
type EditorData struct {
	Draft      *authoring.Draft
	DraftID    string
	Categories []string
	Errors     map[string]string
	CSRFToken  string
}

// DashboardData feeds the admin dashboard.
type DashboardData struct {
	Drafts    []DraftRecord
	Message   string
	CSRFToken string
}
