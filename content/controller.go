// Package content is the single authority for fetching and caching all
// public blog state: the paginated listing, search results, the current
// post with its related posts, and the category/tag aggregates feeding
// the filter widgets.
//
// Each operation owns its slice of state with its own loading flag and
// error slot, so a failure in one concern can never corrupt another: a
// failed related-posts fetch does not blank the post being read, and a
// stale search error does not bleed into category browsing.
//
// Fetch operations return the result for the request that made them.
// The controller additionally keeps the latest committed result per
// slice — guarded by request tokens so a late stale response can never
// overwrite a newer one — and that cache is what Like propagates counts
// through. Concurrent callers each get their own result; they never read
// another request's data out of the shared slices.
package content

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/professor0121/tmkoc-sub002/blogapi"
)

const (
	// DefaultPageSize is the listing page size sent to the backend.
	DefaultPageSize = 12
	// aggregateTTL bounds how long category/tag aggregates are reused
	// before a page mount triggers a refetch.
	aggregateTTL = 5 * time.Minute
)

// ListState is one page of listing or search results. Every successful
// fetch replaces it wholesale; pages are never appended.
type ListState struct {
	Items      []blogapi.Post
	Total      int
	Page       int
	TotalPages int
	Loading    bool
	Err        string
}

// RelatedState holds the related-posts slice for the current post.
type RelatedState struct {
	Items   []blogapi.Post
	Loading bool
	Err     string
}

// CurrentState holds the post open on the detail page. Post is nil when
// nothing is loaded or the last fetch failed.
type CurrentState struct {
	Post    *blogapi.Post
	Loading bool
	Err     string
}

// Controller mediates every network-bound blog operation.
type Controller struct {
	client   *blogapi.Client
	pageSize int

	mu      sync.Mutex
	list    ListState
	search  ListState
	current CurrentState
	related RelatedState

	categories   []blogapi.CategoryCount
	categoriesAt time.Time

	tags   []blogapi.TagCount
	tagsAt time.Time

	// Monotonic request tokens. A response is committed to the shared
	// slices only if its token still matches the latest issued request
	// for that slice, so a late-resolving stale response can never
	// overwrite a newer one.
	listSeq    uint64
	searchSeq  uint64
	currentSeq uint64
	relatedSeq uint64
}

// NewController creates a Controller over the given backend client.
func NewController(client *blogapi.Client) *Controller {
	return &Controller{client: client, pageSize: DefaultPageSize}
}

// SetPageSize overrides the listing page size.
func (c *Controller) SetPageSize(n int) {
	if n > 0 {
		c.pageSize = n
	}
}

// List returns the committed browse slice.
func (c *Controller) List() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

// SearchResults returns the committed search slice.
func (c *Controller) SearchResults() ListState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Current returns the detail-page slice.
func (c *Controller) Current() CurrentState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Related returns the related-posts slice.
func (c *Controller) Related() RelatedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.related
}

// FetchList loads one page of published posts for the given filter. The
// returned state is this request's own result; the shared browse slice is
// replaced only when this is still the latest issued request.
func (c *Controller) FetchList(ctx context.Context, f Filter) (ListState, error) {
	c.mu.Lock()
	c.listSeq++
	seq := c.listSeq
	c.list.Loading = true
	c.list.Err = ""
	c.mu.Unlock()

	res, err := c.client.ListPublished(ctx, f.params(c.pageSize))
	state := listStateOf(res, err)

	c.mu.Lock()
	if seq == c.listSeq {
		c.list = state
	}
	c.mu.Unlock()
	return state, err
}

// Search runs a full-text search. It is a separate operation from
// FetchList with its own error state and its own shared slice, so browse
// and search can fail or load independently.
func (c *Controller) Search(ctx context.Context, query string, f Filter) (ListState, error) {
	c.mu.Lock()
	c.searchSeq++
	seq := c.searchSeq
	c.search.Loading = true
	c.search.Err = ""
	c.mu.Unlock()

	res, err := c.client.SearchPublished(ctx, query, f.params(c.pageSize))
	state := listStateOf(res, err)

	c.mu.Lock()
	if seq == c.searchSeq {
		c.search = state
	}
	c.mu.Unlock()
	return state, err
}

func listStateOf(res blogapi.ListResult, err error) ListState {
	if err != nil {
		return ListState{Err: err.Error()}
	}
	return ListState{
		Items:      res.Items,
		Total:      res.Total,
		Page:       res.Page,
		TotalPages: res.TotalPages,
	}
}

// FetchBySlug loads the post for the detail page and returns it to the
// caller. The shared current slice gets its own copy of the post, so a
// later Like cannot reach into a result already handed out.
func (c *Controller) FetchBySlug(ctx context.Context, slug string) (*blogapi.Post, error) {
	c.mu.Lock()
	c.currentSeq++
	seq := c.currentSeq
	c.current.Loading = true
	c.current.Err = ""
	c.mu.Unlock()

	post, err := c.client.GetBySlug(ctx, slug)

	state := CurrentState{}
	if err != nil {
		state.Err = err.Error()
	} else {
		cp := *post
		state.Post = &cp
	}

	c.mu.Lock()
	if seq == c.currentSeq {
		c.current = state
	}
	c.mu.Unlock()
	return post, err
}

// ClearCurrent resets the detail-page state. Callers invoke it when a
// detail view ends so the next one cannot flash stale content, and it
// invalidates any in-flight current/related commit.
func (c *Controller) ClearCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentSeq++
	c.relatedSeq++
	c.current = CurrentState{}
	c.related = RelatedState{}
}

// FetchRelated loads posts related to the given post ID and returns them.
// Failures and cancellations never touch the current post or the listing;
// a canceled fetch commits no items or error to the shared slice.
func (c *Controller) FetchRelated(ctx context.Context, id string, limit int) ([]blogapi.Post, error) {
	c.mu.Lock()
	c.relatedSeq++
	seq := c.relatedSeq
	c.related.Loading = true
	c.related.Err = ""
	c.mu.Unlock()

	posts, err := c.client.Related(ctx, id, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.relatedSeq {
		return posts, err
	}
	c.related.Loading = false
	if errors.Is(err, context.Canceled) {
		return nil, err
	}
	if err != nil {
		c.related.Err = err.Error()
		return nil, err
	}
	c.related.Items = posts
	return posts, nil
}

// FetchCategories returns the category aggregates, reusing a cached copy
// within the TTL. Counts are server-computed and opaque to the client.
func (c *Controller) FetchCategories(ctx context.Context) ([]blogapi.CategoryCount, error) {
	c.mu.Lock()
	if c.categories != nil && time.Since(c.categoriesAt) < aggregateTTL {
		cached := c.categories
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	cats, err := c.client.Categories(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = cats
	c.categoriesAt = time.Now()
	return cats, nil
}

// FetchPopularTags returns the tag aggregates, reusing a cached copy
// within the TTL.
func (c *Controller) FetchPopularTags(ctx context.Context, limit int) ([]blogapi.TagCount, error) {
	c.mu.Lock()
	if c.tags != nil && time.Since(c.tagsAt) < aggregateTTL {
		cached := c.tags
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	tags, err := c.client.PopularTags(ctx, limit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = tags
	c.tagsAt = time.Now()
	return tags, nil
}

// InvalidateAggregates drops the cached category and tag aggregates so the
// next mount refetches them. Called after an admin publish.
func (c *Controller) InvalidateAggregates() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = nil
	c.tags = nil
}

// Like increments the like counter of a post and applies the returned
// count to every shared slice currently holding a copy of that post — the
// listing, the search results, the current post and the related posts —
// in one locked step, so no reader can observe the slices disagreeing.
// Updates are copy-on-write: snapshots already handed to callers keep
// their values. On failure no state changes; the caller treats it as
// silent.
func (c *Controller) Like(ctx context.Context, id string) (int, error) {
	likes, err := c.client.Like(ctx, id)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.list.Items = likeApplied(c.list.Items, id, likes)
	c.search.Items = likeApplied(c.search.Items, id, likes)
	c.related.Items = likeApplied(c.related.Items, id, likes)
	if c.current.Post != nil && c.current.Post.ID == id {
		cp := *c.current.Post
		cp.Likes = likes
		c.current.Post = &cp
	}
	return likes, nil
}

// likeApplied returns posts with the matching post's count replaced. The
// input slice is never written to; earlier snapshots stay coherent.
func likeApplied(posts []blogapi.Post, id string, likes int) []blogapi.Post {
	for i := range posts {
		if posts[i].ID == id {
			out := append([]blogapi.Post(nil), posts...)
			out[i].Likes = likes
			return out
		}
	}
	return posts
}
