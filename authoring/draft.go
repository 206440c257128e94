// Package authoring owns the admin-side draft post: field derivation
// (slug, read time, SEO meta), tag ordering, and synchronous form
// validation before submit.
//
// A Draft lives only for the duration of an editing session. SEO fields
// auto-derive from title and excerpt on every change until the author
// edits the SEO field directly; from then on the direct edit wins
// (last-writer-wins per field, no deeper dirty tracking).
package authoring

import (
	"fmt"
	"strings"

	"github.com/professor0121/tmkoc-sub002/blogapi"
)

// Field length limits enforced at validation time.
const (
	MaxMetaTitleLen       = 60
	MaxMetaDescriptionLen = 160
	MaxExcerptLen         = 500

	wordsPerMinute = 200
)

// DefaultCategories is the fallback category list for the admin form when
// the server-driven categories endpoint is unavailable. The server list is
// the source of truth.
var DefaultCategories = []string{
	"Adventure",
	"Beach",
	"City Breaks",
	"Culture",
	"Food & Drink",
	"Nature",
	"Travel Tips",
	"Wildlife",
}

// Draft is an in-progress post owned by the authoring form.
type Draft struct {
	ID            string // backend ID when editing an existing post
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	FeaturedImage string
	Category      string
	Tags          []string
	Status        string
	ReadTime      int
	SEO           blogapi.SEO

	slugTouched      bool
	metaTitleTouched bool
	metaDescTouched  bool
}

// NewDraft creates an empty draft.
func NewDraft() *Draft {
	return &Draft{Status: blogapi.StatusDraft}
}

// FromPost hydrates a draft from a fetched post (edit flow). Derived
// fields that no longer match their source are treated as directly edited,
// so re-deriving cannot clobber an author's deliberate override.
func FromPost(p *blogapi.Post) *Draft {
	d := &Draft{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		Category:      p.Category,
		Tags:          append([]string(nil), p.Tags...),
		Status:        p.Status,
		ReadTime:      p.ReadTime,
		SEO:           p.SEO,
	}
	d.slugTouched = p.Slug != "" && p.Slug != Slugify(p.Title)
	d.metaTitleTouched = p.SEO.MetaTitle != "" && p.SEO.MetaTitle != deriveMetaTitle(p.Title)
	d.metaDescTouched = p.SEO.MetaDescription != "" && p.SEO.MetaDescription != deriveMetaDescription(p.Excerpt)
	return d
}

// SetTitle updates the title and re-derives the slug and meta title unless
// the author has edited those directly.
func (d *Draft) SetTitle(title string) {
	d.Title = title
	if !d.slugTouched {
		d.Slug = Slugify(title)
	}
	if !d.metaTitleTouched {
		d.SEO.MetaTitle = deriveMetaTitle(title)
	}
}

// SetSlug sets an author-chosen slug, normalized to slug form. An empty
// value reverts to deriving from the title.
func (d *Draft) SetSlug(slug string) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		d.slugTouched = false
		d.Slug = Slugify(d.Title)
		return
	}
	d.Slug = Slugify(slug)
	d.slugTouched = true
}

// SetExcerpt updates the excerpt and re-derives the meta description
// unless the author has edited it directly.
func (d *Draft) SetExcerpt(excerpt string) {
	d.Excerpt = excerpt
	if !d.metaDescTouched {
		d.SEO.MetaDescription = deriveMetaDescription(excerpt)
	}
}

// SetContent updates the content and recomputes the read time.
func (d *Draft) SetContent(content string) {
	d.Content = content
	d.ReadTime = EstimateReadTime(content)
}

// SetMetaTitle records a direct edit of the SEO title; from now on title
// changes no longer derive it.
func (d *Draft) SetMetaTitle(title string) {
	d.SEO.MetaTitle = title
	d.metaTitleTouched = true
}

// SetMetaDescription records a direct edit of the SEO description.
func (d *Draft) SetMetaDescription(desc string) {
	d.SEO.MetaDescription = desc
	d.metaDescTouched = true
}

// SetKeywords replaces the SEO keywords.
func (d *Draft) SetKeywords(keywords []string) {
	d.SEO.Keywords = keywords
}

// SetCategory sets the post category.
func (d *Draft) SetCategory(category string) {
	d.Category = strings.TrimSpace(category)
}

// SetFeaturedImage sets the featured image URL.
func (d *Draft) SetFeaturedImage(url string) {
	d.FeaturedImage = strings.TrimSpace(url)
}

// SetStatus sets the lifecycle status if it is one of the known values.
func (d *Draft) SetStatus(status string) {
	switch status {
	case blogapi.StatusDraft, blogapi.StatusPublished, blogapi.StatusArchived:
		d.Status = status
	}
}

// AddTag appends a tag unless it is already present. Insertion order is
// display order.
func (d *Draft) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return
		}
	}
	d.Tags = append(d.Tags, tag)
}

// RemoveTag deletes a tag, preserving the order of the rest.
func (d *Draft) RemoveTag(tag string) {
	for i, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			return
		}
	}
}

// Validate checks the draft synchronously before submit and returns a
// field-to-message map. An empty map means the draft is submittable.
func (d *Draft) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(d.Excerpt) == "" {
		errs["excerpt"] = "Excerpt is required"
	} else if len([]rune(d.Excerpt)) > MaxExcerptLen {
		errs["excerpt"] = fmt.Sprintf("Excerpt must be %d characters or fewer", MaxExcerptLen)
	}
	if strings.TrimSpace(d.Content) == "" {
		errs["content"] = "Content is required"
	}
	if strings.TrimSpace(d.Category) == "" {
		errs["category"] = "Category is required"
	}
	if !IsValidSlug(d.Slug) {
		errs["slug"] = "Slug must contain only lowercase letters, numbers and hyphens"
	}
	if len([]rune(d.SEO.MetaTitle)) > MaxMetaTitleLen {
		errs["metaTitle"] = fmt.Sprintf("Meta title must be %d characters or fewer", MaxMetaTitleLen)
	}
	if len([]rune(d.SEO.MetaDescription)) > MaxMetaDescriptionLen {
		errs["metaDescription"] = fmt.Sprintf("Meta description must be %d characters or fewer", MaxMetaDescriptionLen)
	}
	return errs
}

// Post converts the draft into the backend payload for create or update.
func (d *Draft) Post() blogapi.Post {
	return blogapi.Post{
		ID:            d.ID,
		Title:         d.Title,
		Slug:          d.Slug,
		Excerpt:       d.Excerpt,
		Content:       d.Content,
		FeaturedImage: d.FeaturedImage,
		Category:      d.Category,
		Tags:          append([]string(nil), d.Tags...),
		Status:        d.Status,
		ReadTime:      d.ReadTime,
		SEO:           d.SEO,
	}
}

// EstimateReadTime derives the reading time in whole minutes at 200 words
// per minute, rounding up, with a one-minute floor.
func EstimateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func deriveMetaTitle(title string) string {
	return truncateRunes(title, MaxMetaTitleLen)
}

func deriveMetaDescription(excerpt string) string {
	return truncateRunes(excerpt, MaxMetaDescriptionLen)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
