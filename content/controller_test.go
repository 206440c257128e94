package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/professor0121/tmkoc-sub002/blogapi"
)

func respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

func newController(srvURL string) *Controller {
	return NewController(blogapi.NewClient(srvURL, nil))
}

func makePosts(n, startViews int) []blogapi.Post {
	posts := make([]blogapi.Post, n)
	for i := range posts {
		posts[i] = blogapi.Post{
			ID:    "id-" + string(rune('a'+i)),
			Title: "Post " + string(rune('A'+i)),
			Views: startViews - i,
		}
	}
	return posts
}

func TestFetchListReplacesSlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/blogs/public", r.URL.Path)
		assert.Equal(t, "views", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "desc", r.URL.Query().Get("sortOrder"))
		respond(w, blogapi.ListResult{
			Items:      makePosts(12, 500),
			Total:      30,
			Page:       1,
			TotalPages: 3, // ceil(30/12)
		})
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	f := NewFilter()
	f.SetSort("views", "desc")
	state, err := ctrl.FetchList(context.Background(), f)
	require.NoError(t, err)

	assert.Len(t, state.Items, 12)
	assert.Equal(t, 30, state.Total)
	assert.Equal(t, 3, state.TotalPages)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
	for i := 1; i < len(state.Items); i++ {
		assert.GreaterOrEqual(t, state.Items[i-1].Views, state.Items[i].Views)
	}

	// The shared slice holds the same committed result.
	assert.Equal(t, state.Items, ctrl.List().Items)
}

func TestFetchListStaleResponseDiscarded(t *testing.T) {
	page1Started := make(chan struct{})
	releasePage1 := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			close(page1Started)
			<-releasePage1 // hold page 1 until page 2 has committed
			respond(w, blogapi.ListResult{
				Items: []blogapi.Post{{ID: "p1", Title: "Page One"}},
				Total: 24, Page: 1, TotalPages: 2,
			})
		default:
			respond(w, blogapi.ListResult{
				Items: []blogapi.Post{{ID: "p2", Title: "Page Two"}},
				Total: 24, Page: 2, TotalPages: 2,
			})
		}
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	f := NewFilter()

	var page1State ListState
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		page1State, _ = ctrl.FetchList(context.Background(), f)
	}()

	<-page1Started
	f.SetPage(2)
	page2State, err := ctrl.FetchList(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "Page Two", page2State.Items[0].Title)

	close(releasePage1)
	wg.Wait()

	// Page 1 resolved last, but page 2 was the latest request issued: the
	// shared slice must reflect page 2. The page-1 caller still got its
	// own page-1 result, not someone else's.
	list := ctrl.List()
	assert.Equal(t, 2, list.Page)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Page Two", list.Items[0].Title)
	require.Len(t, page1State.Items, 1)
	assert.Equal(t, "Page One", page1State.Items[0].Title)
}

func TestSearchAndListFailIndependently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "" {
			respondError(w, http.StatusInternalServerError, "search unavailable")
			return
		}
		respond(w, blogapi.ListResult{
			Items: []blogapi.Post{{ID: "x", Title: "Browse Result"}},
			Total: 1, Page: 1, TotalPages: 1,
		})
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	browse, err := ctrl.FetchList(context.Background(), NewFilter())
	require.NoError(t, err)
	searched, err := ctrl.Search(context.Background(), "volcano", NewFilter())
	require.Error(t, err)

	assert.Empty(t, browse.Err)
	assert.Len(t, browse.Items, 1)
	assert.Equal(t, "search unavailable", searched.Err)
	assert.Empty(t, searched.Items)
	assert.Empty(t, ctrl.List().Err)
	assert.Equal(t, "search unavailable", ctrl.SearchResults().Err)
}

func TestFetchBySlugNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Blog not found")
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	post, err := ctrl.FetchBySlug(context.Background(), "unknown-slug")
	require.Error(t, err)
	assert.Nil(t, post)

	cur := ctrl.Current()
	assert.Nil(t, cur.Post)
	assert.Equal(t, "Blog not found", cur.Err)
	assert.False(t, cur.Loading)
}

// Two overlapping detail requests must each get the post for their own
// slug, even though the later request supersedes the earlier one's commit
// and clears the shared slice when it finishes.
func TestConcurrentDetailFetchesKeepOwnResults(t *testing.T) {
	baliStarted := make(chan struct{})
	releaseBali := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/bali") {
			close(baliStarted)
			<-releaseBali
			respond(w, blogapi.Post{ID: "a", Slug: "bali", Title: "Bali"})
			return
		}
		respond(w, blogapi.Post{ID: "b", Slug: "kyoto", Title: "Kyoto"})
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)

	var baliPost *blogapi.Post
	var baliErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		baliPost, baliErr = ctrl.FetchBySlug(context.Background(), "bali")
	}()

	<-baliStarted
	kyotoPost, err := ctrl.FetchBySlug(context.Background(), "kyoto")
	require.NoError(t, err)
	require.NotNil(t, kyotoPost)
	assert.Equal(t, "Kyoto", kyotoPost.Title)
	ctrl.ClearCurrent() // the kyoto view ends

	close(releaseBali)
	wg.Wait()

	require.NoError(t, baliErr)
	require.NotNil(t, baliPost)
	assert.Equal(t, "Bali", baliPost.Title)
}

func TestClearCurrentResetsDetailState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/related") {
			respond(w, []blogapi.Post{{ID: "r1"}})
			return
		}
		respond(w, blogapi.Post{ID: "abc", Slug: "bali", Title: "Bali"})
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	_, err := ctrl.FetchBySlug(context.Background(), "bali")
	require.NoError(t, err)
	_, err = ctrl.FetchRelated(context.Background(), "abc", 3)
	require.NoError(t, err)
	require.NotNil(t, ctrl.Current().Post)
	require.Len(t, ctrl.Related().Items, 1)

	ctrl.ClearCurrent()
	assert.Nil(t, ctrl.Current().Post)
	assert.Empty(t, ctrl.Current().Err)
	assert.Empty(t, ctrl.Related().Items)
}

func TestFetchRelatedFailureLeavesCurrentIntact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/related") {
			respondError(w, http.StatusInternalServerError, "related blew up")
			return
		}
		respond(w, blogapi.Post{ID: "abc", Slug: "bali", Title: "Bali"})
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	_, err := ctrl.FetchBySlug(context.Background(), "bali")
	require.NoError(t, err)
	related, err := ctrl.FetchRelated(context.Background(), "abc", 3)
	require.Error(t, err)
	assert.Empty(t, related)

	assert.NotNil(t, ctrl.Current().Post)
	assert.Empty(t, ctrl.Current().Err)
	assert.Equal(t, "related blew up", ctrl.Related().Err)
}

func TestFetchRelatedCancellationCommitsNothing(t *testing.T) {
	started := make(chan struct{})
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctrl := newController(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = ctrl.FetchRelated(ctx, "abc", 3)
	}()

	<-started
	cancel() // navigation away aborts the in-flight fetch
	wg.Wait()

	related := ctrl.Related()
	assert.Empty(t, related.Err)
	assert.Empty(t, related.Items)
	assert.False(t, related.Loading, "a canceled fetch must not leave Loading stuck")
}

func TestLikeUpdatesEveryCacheLocation(t *testing.T) {
	shared := blogapi.Post{ID: "abc", Slug: "bali", Title: "Bali", Likes: 7}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/like"):
			respond(w, map[string]int{"likes": 8})
		case strings.HasSuffix(r.URL.Path, "/related"):
			respond(w, []blogapi.Post{shared, {ID: "other", Likes: 1}})
		case r.URL.Path == "/api/blogs/public":
			respond(w, blogapi.ListResult{
				Items: []blogapi.Post{shared, {ID: "other", Likes: 1}},
				Total: 2, Page: 1, TotalPages: 1,
			})
		default:
			respond(w, shared)
		}
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	_, err := ctrl.FetchList(context.Background(), NewFilter())
	require.NoError(t, err)
	_, err = ctrl.FetchBySlug(context.Background(), "bali")
	require.NoError(t, err)
	_, err = ctrl.FetchRelated(context.Background(), "abc", 3)
	require.NoError(t, err)

	likes, err := ctrl.Like(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 8, likes)

	// all three cache locations agree
	assert.Equal(t, 8, ctrl.List().Items[0].Likes)
	assert.Equal(t, 8, ctrl.Current().Post.Likes)
	assert.Equal(t, 8, ctrl.Related().Items[0].Likes)
	// untouched posts keep their counts
	assert.Equal(t, 1, ctrl.List().Items[1].Likes)
	assert.Equal(t, 1, ctrl.Related().Items[1].Likes)
}

// Like replaces cached slices instead of writing into them, so a snapshot
// taken before the like keeps its values and can be read concurrently.
func TestLikeLeavesEarlierSnapshotsUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/like") {
			respond(w, map[string]int{"likes": 8})
			return
		}
		respond(w, blogapi.ListResult{
			Items: []blogapi.Post{{ID: "abc", Likes: 7}},
			Total: 1, Page: 1, TotalPages: 1,
		})
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	snapshot, err := ctrl.FetchList(context.Background(), NewFilter())
	require.NoError(t, err)
	require.Equal(t, 7, snapshot.Items[0].Likes)

	_, err = ctrl.Like(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, 8, ctrl.List().Items[0].Likes)
	assert.Equal(t, 7, snapshot.Items[0].Likes)
}

func TestLikeFailureChangesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/like") {
			respondError(w, http.StatusInternalServerError, "like failed")
			return
		}
		respond(w, blogapi.ListResult{
			Items: []blogapi.Post{{ID: "abc", Likes: 7}},
			Total: 1, Page: 1, TotalPages: 1,
		})
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	_, err := ctrl.FetchList(context.Background(), NewFilter())
	require.NoError(t, err)

	_, err = ctrl.Like(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, 7, ctrl.List().Items[0].Likes)
	assert.Empty(t, ctrl.List().Err)
}

func TestAggregatesCachedWithinTTL(t *testing.T) {
	var categoryCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/blogs/categories":
			categoryCalls++
			respond(w, []blogapi.CategoryCount{{Name: "Adventure", Count: 9}})
		case "/api/blogs/tags":
			respond(w, []blogapi.TagCount{{Name: "hiking", Count: 4}})
		}
	}))
	defer srv.Close()

	ctrl := newController(srv.URL)
	for range 3 {
		cats, err := ctrl.FetchCategories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Adventure", cats[0].Name)
	}
	assert.Equal(t, 1, categoryCalls)

	ctrl.InvalidateAggregates()
	_, err := ctrl.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, categoryCalls)
}
