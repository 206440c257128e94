// Command travelblog runs the blog front-end with a plain built-in theme.
// Real deployments embed the travelblog package and supply their own templ
// views; this binary is the quickest way to stand the engine up against a
// running backend.
package main

import (
	"fmt"
	"html"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/a-h/templ"

	travelblog "github.com/professor0121/tmkoc-sub002"
	"github.com/professor0121/tmkoc-sub002/markdown"
)

func main() {
	cfg, err := travelblog.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := travelblog.New(cfg, defaultViews(cfg))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		app.Close()
		os.Exit(0)
	}()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// defaultViews renders unstyled but functional pages. Every component is a
// templ.Raw over escaped data; there is nothing to customize here, that is
// what user-supplied views are for.
func defaultViews(cfg travelblog.SiteConfig) travelblog.ViewFuncs {
	page := func(title, body string) templ.Component {
		return templ.Raw(fmt.Sprintf(
			"<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body>%s</body></html>",
			html.EscapeString(title), body))
	}

	listBody := func(data travelblog.BlogListData) string {
		var b strings.Builder
		if data.Result.Err != "" {
			fmt.Fprintf(&b, "<p>Could not load posts: %s</p>", html.EscapeString(data.Result.Err))
		}
		b.WriteString("<ul>")
		for _, p := range data.Result.Items {
			fmt.Fprintf(&b, "<li><a href=\"/blog/%s/\">%s</a> (%d min read)</li>",
				html.EscapeString(p.Slug), html.EscapeString(p.Title), p.ReadTime)
		}
		b.WriteString("</ul>")
		fmt.Fprintf(&b, "<p>Page %d of %d</p>", data.Result.Page, data.Result.TotalPages)
		return b.String()
	}

	return travelblog.ViewFuncs{
		BlogList: func(data travelblog.BlogListData) templ.Component {
			return page(data.Meta.Title, listBody(data))
		},
		BlogListPartial: func(data travelblog.BlogListData) templ.Component {
			return templ.Raw(listBody(data))
		},
		BlogPost: func(data travelblog.BlogPostData) templ.Component {
			body := fmt.Sprintf("<article><h1>%s</h1>%s</article>",
				html.EscapeString(data.Post.Title),
				markdown.Render(data.Post.Content, markdown.VariantFull))
			return page(data.Meta.Title, body)
		},
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			msg := ""
			if showError {
				msg = "<p>Wrong password.</p>"
			}
			return page("Login", fmt.Sprintf(
				"%s<form method=\"post\" action=\"/admin/login/\"><input type=\"hidden\" name=\"_csrf\" value=\"%s\"><input type=\"password\" name=\"password\"><button>Log in</button></form>",
				msg, html.EscapeString(csrfToken)))
		},
		AdminDashboard: func(data travelblog.DashboardData) templ.Component {
			var b strings.Builder
			if data.Message != "" {
				fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(data.Message))
			}
			b.WriteString("<p><a href=\"/admin/post/new/\">New post</a></p><ul>")
			for _, d := range data.Drafts {
				fmt.Fprintf(&b, "<li>%s (saved %s)</li>",
					html.EscapeString(d.Title), d.UpdatedAt.Format("2006-01-02 15:04"))
			}
			b.WriteString("</ul>")
			return page(cfg.Name+" admin", b.String())
		},
		AdminEditor: func(data travelblog.EditorData) templ.Component {
			var b strings.Builder
			for field, msg := range data.Errors {
				fmt.Fprintf(&b, "<p>%s: %s</p>", html.EscapeString(field), html.EscapeString(msg))
			}
			fmt.Fprintf(&b,
				"<form method=\"post\" action=\"/admin/save/\"><input type=\"hidden\" name=\"_csrf\" value=\"%s\"><input type=\"hidden\" name=\"draftId\" value=\"%s\"><input type=\"hidden\" name=\"postId\" value=\"%s\"><input name=\"title\" value=\"%s\"><textarea name=\"content\">%s</textarea><button>Save</button></form>",
				html.EscapeString(data.CSRFToken), html.EscapeString(data.DraftID),
				html.EscapeString(data.Draft.ID), html.EscapeString(data.Draft.Title),
				html.EscapeString(data.Draft.Content))
			return page("Editor", b.String())
		},
		NotFound: func() templ.Component {
			return page("Not found", "<h1>Page not found</h1><p><a href=\"/blog/\">Back to the blog</a></p>")
		},
		ServerError: func() templ.Component {
			return page("Something went wrong", "<h1>Something went wrong</h1><p><a href=\"/blog/\">Back to the blog</a></p>")
		},
	}
}
