package travelblog

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/professor0121/tmkoc-sub002/authoring"
	"github.com/professor0121/tmkoc-sub002/blogapi"
	"github.com/professor0121/tmkoc-sub002/markdown"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.record(ip)
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminNew opens the editor with an empty draft.
func (a *App) handleAdminNew(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminEditor(EditorData{
		Draft:      authoring.NewDraft(),
		DraftID:    NewDraftID(),
		Categories: a.editorCategories(c),
		CSRFToken:  CsrfToken(c),
	}))
}

// handleAdminEdit opens the editor for an existing post. A pending autosave
// for that post wins over the backend copy, so a crashed session resumes
// where it left off.
func (a *App) handleAdminEdit(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id := c.Param("id")

	if rec, err := a.Drafts.GetDraftByPostID(id); err == nil {
		if draft, derr := draftFromRecord(rec); derr == nil {
			return Render(c, a.Views.AdminEditor(EditorData{
				Draft:      draft,
				DraftID:    rec.ID,
				Categories: a.editorCategories(c),
				CSRFToken:  CsrfToken(c),
			}))
		}
	}

	post, err := a.API.GetByID(c.Request().Context(), id)
	if err != nil {
		if blogapi.IsNotFound(err) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	return Render(c, a.Views.AdminEditor(EditorData{
		Draft:      authoring.FromPost(post),
		DraftID:    NewDraftID(),
		Categories: a.editorCategories(c),
		CSRFToken:  CsrfToken(c),
	}))
}

// handleAdminPreview renders submitted markdown for the editor. The inline
// preview pane asks for the compact variant; the preview modal gets the
// full variant, which matches what the detail page will show. The draft
// itself is untouched; this is render-only.
func (a *App) handleAdminPreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.NoContent(http.StatusUnauthorized)
	}
	variant := markdown.VariantFull
	if c.FormValue("variant") == "compact" {
		variant = markdown.VariantCompact
	}
	return c.HTML(http.StatusOK, markdown.Render(c.FormValue("content"), variant))
}

// handleAdminAutosave snapshots the editor form into the draft store.
func (a *App) handleAdminAutosave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.NoContent(http.StatusUnauthorized)
	}
	draftID := strings.TrimSpace(c.FormValue("draftId"))
	if draftID == "" {
		draftID = NewDraftID()
	}
	draft := draftFromForm(c)
	payload, err := json.Marshal(draft.Post())
	if err != nil {
		return err
	}
	if err := a.Drafts.SaveDraft(DraftRecord{
		ID:      draftID,
		PostID:  draft.ID,
		Title:   draft.Title,
		Payload: string(payload),
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"draftId": draftID,
		"savedAt": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *App) handleAdminDraftDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := a.Drafts.DeleteDraft(c.Param("id")); err != nil {
		return err
	}
	return a.renderAdminDashboard(c, "Draft discarded")
}

// handleAdminSave validates the draft and submits it to the backend. The
// autosave is deleted only after the backend accepts the post.
func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	draftID := strings.TrimSpace(c.FormValue("draftId"))
	draft := draftFromForm(c)

	if errs := draft.Validate(); len(errs) > 0 {
		return Render(c, a.Views.AdminEditor(EditorData{
			Draft:      draft,
			DraftID:    draftID,
			Categories: a.editorCategories(c),
			Errors:     errs,
			CSRFToken:  CsrfToken(c),
		}))
	}

	ctx := c.Request().Context()
	post := draft.Post()
	var err error
	if draft.ID != "" {
		_, err = a.API.Update(ctx, draft.ID, post)
	} else {
		_, err = a.API.Create(ctx, post)
	}
	if err != nil {
		return Render(c, a.Views.AdminEditor(EditorData{
			Draft:      draft,
			DraftID:    draftID,
			Categories: a.editorCategories(c),
			Errors:     map[string]string{"submit": err.Error()},
			CSRFToken:  CsrfToken(c),
		}))
	}

	if draftID != "" {
		if derr := a.Drafts.DeleteDraft(draftID); derr != nil {
			c.Logger().Errorf("delete draft %s: %v", draftID, derr)
		}
	}
	a.Content.InvalidateAggregates()

	msg := "Post created"
	if draft.ID != "" {
		msg = "Post updated"
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+PathEscape(msg))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	drafts, err := a.Drafts.ListDrafts()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(DashboardData{
		Drafts:    drafts,
		Message:   msg,
		CSRFToken: CsrfToken(c),
	}))
}

// editorCategories feeds the editor's category picker from the backend
// aggregates, falling back to the stock list when the backend is down or
// the site has no posts yet.
func (a *App) editorCategories(c echo.Context) []string {
	cats, err := a.Content.FetchCategories(c.Request().Context())
	if err != nil || len(cats) == 0 {
		return authoring.DefaultCategories
	}
	names := make([]string, 0, len(cats))
	for _, cat := range cats {
		names = append(names, cat.Name)
	}
	return names
}

// draftFromForm rebuilds the draft from the posted editor form. Setters run
// after hydration so untouched derived fields re-derive and explicit
// overrides stay pinned.
func draftFromForm(c echo.Context) *authoring.Draft {
	p := blogapi.Post{
		ID:            strings.TrimSpace(c.FormValue("postId")),
		Title:         strings.TrimSpace(c.FormValue("title")),
		Slug:          strings.TrimSpace(c.FormValue("slug")),
		Excerpt:       c.FormValue("excerpt"),
		Content:       c.FormValue("content"),
		FeaturedImage: strings.TrimSpace(c.FormValue("featuredImage")),
		Status:        blogapi.StatusDraft,
		SEO: blogapi.SEO{
			MetaTitle:       strings.TrimSpace(c.FormValue("metaTitle")),
			MetaDescription: strings.TrimSpace(c.FormValue("metaDescription")),
			Keywords:        splitCSV(c.FormValue("keywords")),
		},
	}
	d := authoring.FromPost(&p)
	d.SetTitle(p.Title)
	d.SetExcerpt(p.Excerpt)
	d.SetContent(p.Content)
	d.SetCategory(c.FormValue("category"))
	d.SetStatus(c.FormValue("status"))
	for _, tag := range splitCSV(c.FormValue("tags")) {
		d.AddTag(tag)
	}
	return d
}

// draftFromRecord rehydrates an autosaved draft snapshot.
func draftFromRecord(rec DraftRecord) (*authoring.Draft, error) {
	var p blogapi.Post
	if err := json.Unmarshal([]byte(rec.Payload), &p); err != nil {
		return nil, errors.New("corrupt draft payload")
	}
	return authoring.FromPost(&p), nil
}
