package blogapi

import "time"

// Post status values as stored by the backend.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// SEO holds the search-engine metadata attached to a post.
type SEO struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

// Post is a blog post as the backend returns it. ID and the counters are
// backend-assigned; Slug is the public lookup key, ID the internal one.
type Post struct {
	ID            string     `json:"_id,omitempty"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Category      string     `json:"category"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	ReadTime      int        `json:"readTime"`
	SEO           SEO        `json:"seo"`
	Author        string     `json:"author,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Views         int        `json:"views,omitempty"`
	Likes         int        `json:"likes,omitempty"`
}

// ListResult is one page of the published listing.
type ListResult struct {
	Items      []Post `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
}

// CategoryCount is a server-computed category aggregate.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCount is a server-computed tag aggregate.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
