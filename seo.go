package travelblog

import (
	"encoding/json"
	"time"

	"github.com/professor0121/tmkoc-sub002/blogapi"
	"github.com/professor0121/tmkoc-sub002/content"
)

// listPageMeta builds head metadata for the listing page. The canonical URL
// carries the active filter so shared links restore the same view.
func (a *App) listPageMeta(f content.Filter) PageMeta {
	pageURL := BuildURL(a.Config.URL, "blog")
	if q := f.Encode(); q != "" {
		pageURL += "?" + q
	}
	title := a.Config.Name + " Blog"
	if f.Search != "" {
		title = "Search: " + f.Search + " | " + title
	} else if f.Category != "" {
		title = f.Category + " | " + title
	}
	return PageMeta{
		Title:       title,
		Description: a.Config.Description,
		URL:         pageURL,
		OGType:      "website",
	}
}

// postPageMeta builds head metadata for a detail page, falling back from
// the stored SEO fields to the post's own title and excerpt.
func (a *App) postPageMeta(post *blogapi.Post) PageMeta {
	title := post.SEO.MetaTitle
	if title == "" {
		title = post.Title
	}
	description := post.SEO.MetaDescription
	if description == "" {
		description = post.Excerpt
	}
	keywords := JoinTags(post.SEO.Keywords)
	if keywords == "" {
		keywords = JoinTags(post.Tags)
	}
	return PageMeta{
		Title:       title,
		Description: description,
		Keywords:    keywords,
		URL:         BuildURL(a.Config.URL, "blog", post.Slug),
		Image:       AbsoluteURL(a.Config.URL, post.FeaturedImage),
		OGType:      "article",
	}
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJSONLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(post *blogapi.Post, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": post.Excerpt,
		"url":         postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.PublishedAt != nil {
		data["datePublished"] = post.PublishedAt.Format(time.RFC3339)
	}
	author := post.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if post.FeaturedImage != "" {
		data["image"] = AbsoluteURL(cfg.URL, post.FeaturedImage)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = JoinTags(post.Tags)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
