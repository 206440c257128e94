package travelblog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/professor0121/tmkoc-sub002/blogapi"
	"github.com/professor0121/tmkoc-sub002/content"
)

const relatedLimit = 3

// handleBlogList renders the public listing page. The URL query string is
// the source of truth for the filter; templates rebuild links from the
// filter's serialized form, which is how state flows back into the URL.
func (a *App) handleBlogList(c echo.Context) error {
	ctx := c.Request().Context()
	f := content.ParseQuery(c.QueryParams())

	// Search and browse are separate operations with separate error slots,
	// so a failed search never leaves its error on the browse panel. The
	// result is this request's own; concurrent requests with different
	// filters never see each other's pages.
	searchActive := f.Search != ""
	var result content.ListState
	if searchActive {
		result, _ = a.Content.Search(ctx, f.Search, f)
	} else {
		result, _ = a.Content.FetchList(ctx, f)
	}

	// Aggregate failures leave the filter widgets empty; the page still renders.
	categories, _ := a.Content.FetchCategories(ctx)
	tags, _ := a.Content.FetchPopularTags(ctx, 10)

	data := BlogListData{
		Result:       result,
		Filter:       f,
		Categories:   categories,
		Tags:         tags,
		SearchActive: searchActive,
		Meta:         a.listPageMeta(f),
		JSONLD:       WebsiteJSONLD(a.Config),
		CSRFToken:    CsrfToken(c),
	}

	if c.Request().Header.Get("HX-Request") == "true" && c.QueryParam("partial") == "list" {
		return Render(c, a.Views.BlogListPartial(data))
	}
	return Render(c, a.Views.BlogList(data))
}

// handleBlogPost renders the detail page. Related-post failures are
// silent; a missing post gets the full not-found page with its escape
// hatches back to the listing.
func (a *App) handleBlogPost(c echo.Context) error {
	ctx := c.Request().Context()
	slug := c.Param("slug")

	// The request is the page's lifetime: the shared detail cache is
	// cleared on the way out so a later view cannot flash this content.
	// The post and related slice used below belong to this request alone.
	defer a.Content.ClearCurrent()

	post, err := a.Content.FetchBySlug(ctx, slug)
	if err != nil {
		if blogapi.IsNotFound(err) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return RenderStatus(c, http.StatusInternalServerError, a.Views.ServerError())
	}

	related, _ := a.Content.FetchRelated(ctx, post.ID, relatedLimit)

	data := BlogPostData{
		Post:    post,
		Related: related,
		Meta:    a.postPageMeta(post),
		JSONLD:  BlogPostingJSONLD(post, a.Config),
	}
	return Render(c, a.Views.BlogPost(data))
}

// handleLike increments a post's like counter. The response is consumed by
// an optimistic counter on the page; failures are silent there, so this
// only reports them in the JSON body.
func (a *App) handleLike(c echo.Context) error {
	likes, err := a.Content.Like(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]any{
			"success": false,
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"likes":   likes,
	})
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.recentPosts(c)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.recentPosts(c)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// recentPosts fetches the newest published posts straight from the
// backend; feeds and sitemaps bypass the page-scoped controller cache.
func (a *App) recentPosts(c echo.Context) ([]blogapi.Post, error) {
	res, err := a.API.ListPublished(c.Request().Context(), blogapi.ListParams{
		Page:      1,
		Limit:     100,
		SortBy:    content.DefaultSortBy,
		SortOrder: content.DefaultSortOrder,
	})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func handleHomeRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blog/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	return c.File(a.staticDir + "/robots.txt")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
