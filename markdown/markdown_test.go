package markdown

import (
	"strings"
	"testing"
)

func TestFormatInlineBold(t *testing.T) {
	r := New(VariantCompact)
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
	}
	for _, tt := range tests {
		got := r.formatInline(tt.input)
		if got != tt.expected {
			t.Errorf("formatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineItalic(t *testing.T) {
	r := New(VariantCompact)
	tests := []struct {
		input    string
		expected string
	}{
		{"*italic*", "<em>italic</em>"},
		{"_italic_", "<em>italic</em>"},
		{"text *italic* more", "text <em>italic</em> more"},
	}
	for _, tt := range tests {
		got := r.formatInline(tt.input)
		if got != tt.expected {
			t.Errorf("formatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineBoldNotMatchedAsItalic(t *testing.T) {
	got := New(VariantCompact).formatInline("**bold**")
	if strings.Contains(got, "<em>") {
		t.Errorf("formatInline(**bold**) = %q, should not contain <em>", got)
	}
}

func TestFormatInlineOrdering(t *testing.T) {
	// one bold "a", one italic "b", one code "c", in that order
	got := New(VariantCompact).formatInline("**a** *b* `c`")
	want := "<strong>a</strong> <em>b</em> <code>c</code>"
	if got != want {
		t.Errorf("formatInline = %q, want %q", got, want)
	}
}

func TestFormatInlineCode(t *testing.T) {
	r := New(VariantCompact)
	tests := []struct {
		input    string
		expected string
	}{
		{"`code`", "<code>code</code>"},
		{"use `fmt.Println` here", "use <code>fmt.Println</code> here"},
		{"`a` and `b`", "<code>a</code> and <code>b</code>"},
		// bold inside backticks should not be formatted
		{"`**not bold**`", "<code>**not bold**</code>"},
	}
	for _, tt := range tests {
		got := r.formatInline(tt.input)
		if got != tt.expected {
			t.Errorf("formatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	got := Render("", VariantCompact)
	if got != "" {
		t.Errorf("Render(\"\") = %q, want empty string", got)
	}
}

func TestRenderHeadings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"# Heading 1", "<h1>Heading 1</h1>"},
		{"## Heading 2", "<h2>Heading 2</h2>"},
		{"### Heading 3", "<h3>Heading 3</h3>"},
	}
	for _, tt := range tests {
		got := Render(tt.input, VariantCompact)
		if got != tt.expected {
			t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderHashInsideLongerHeading(t *testing.T) {
	got := Render("### Three", VariantCompact)
	if strings.Contains(got, "<h1>") || strings.Contains(got, "<h2>") {
		t.Errorf("### matched a shorter heading prefix: %q", got)
	}
}

func TestRenderListGrouping(t *testing.T) {
	got := Render("- x\n- y", VariantCompact)
	if strings.Count(got, "<ul>") != 1 || strings.Count(got, "</ul>") != 1 {
		t.Errorf("consecutive items should share one list wrapper: %q", got)
	}
	if strings.Count(got, "<li>") != 2 {
		t.Errorf("expected two list items: %q", got)
	}
}

func TestRenderOrderedList(t *testing.T) {
	got := Render("1. first\n2. second", VariantCompact)
	if strings.Count(got, "<ol>") != 1 {
		t.Errorf("consecutive ordered items should share one wrapper: %q", got)
	}
	if !strings.Contains(got, "<li>first</li>") || !strings.Contains(got, "<li>second</li>") {
		t.Errorf("missing ordered items: %q", got)
	}
}

func TestRenderSeparatedListsNotMerged(t *testing.T) {
	got := Render("- x\n\ntext\n\n- y", VariantCompact)
	if strings.Count(got, "<ul>") != 2 {
		t.Errorf("blank-line-separated lists should not merge: %q", got)
	}
}

func TestRenderCodeBlock(t *testing.T) {
	got := Render("```\ncode here\n```", VariantCompact)
	if !strings.Contains(got, "<pre") || !strings.Contains(got, "<code>") {
		t.Errorf("code block failed: %q", got)
	}
	if !strings.Contains(got, "code here") {
		t.Errorf("code block missing content: %q", got)
	}
	if strings.Contains(got, "```") {
		t.Errorf("fence markers leaked into output: %q", got)
	}
}

func TestRenderCodeBlockLanguageBadgeFullOnly(t *testing.T) {
	input := "```go\nfmt.Println(\"hi\")\n```"
	full := Render(input, VariantFull)
	if !strings.Contains(full, `class="language-go"`) {
		t.Errorf("full variant should tag language: %q", full)
	}
	if !strings.Contains(full, `<span class="code-lang code-lang-go">go</span>`) {
		t.Errorf("full variant should show language badge: %q", full)
	}
	compact := Render(input, VariantCompact)
	if strings.Contains(compact, "code-lang") {
		t.Errorf("compact variant should not show language badge: %q", compact)
	}
}

func TestRenderFenceNotParsedAsInlineCode(t *testing.T) {
	got := Render("```\n`tick`\n```", VariantCompact)
	if strings.Contains(got, "<code>`tick`</code></code>") || strings.Count(got, "<code>") != 1 {
		t.Errorf("fence content should not be inline-code formatted: %q", got)
	}
}

func TestRenderBlockquote(t *testing.T) {
	compact := Render("> quoted", VariantCompact)
	if compact != "<blockquote>quoted</blockquote>" {
		t.Errorf("compact blockquote = %q", compact)
	}
	full := Render("> quoted", VariantFull)
	if !strings.Contains(full, `<blockquote class="styled-quote">`) {
		t.Errorf("full blockquote should carry styling class: %q", full)
	}
}

func TestRenderImageBeforeLink(t *testing.T) {
	got := Render("![photo](https://example.com/a.jpg)", VariantFull)
	if !strings.Contains(got, "<img ") {
		t.Errorf("image not rendered: %q", got)
	}
	if strings.Contains(got, "<a ") {
		t.Errorf("image markup must not be parsed as a link: %q", got)
	}
	if !strings.Contains(got, `class="img-shadow"`) {
		t.Errorf("full variant images should carry shadow class: %q", got)
	}
	compact := Render("![photo](https://example.com/a.jpg)", VariantCompact)
	if strings.Contains(compact, "img-shadow") {
		t.Errorf("compact variant should not add shadow class: %q", compact)
	}
}

func TestRenderLink(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[Wikipedia](https://en.wikipedia.org/wiki/Some_Article_Title)",
			`<p><a href="https://en.wikipedia.org/wiki/Some_Article_Title" class="content-link">Wikipedia</a></p>`,
		},
		{
			"[Google](https://google.com)^",
			`<p><a href="https://google.com" class="content-link" target="_blank" rel="noopener noreferrer">Google</a></p>`,
		},
	}
	for _, tt := range tests {
		got := Render(tt.input, VariantCompact)
		if got != tt.expected {
			t.Errorf("Render(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderParagraphsAndBreaks(t *testing.T) {
	got := Render("one\ntwo\n\nthree", VariantCompact)
	want := "<p>one<br/>two</p><p>three</p>"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderNoRawMarkers(t *testing.T) {
	input := "# Title\n\nA **bold** trip with *notes* and `code`.\n\n- one\n- two\n\n```\nx := 1\n```\n\n> said someone"
	for _, v := range []Variant{VariantCompact, VariantFull} {
		got := Render(input, v)
		for _, marker := range []string{"**", "# ", "```"} {
			if strings.Contains(got, marker) {
				t.Errorf("variant %d output contains raw marker %q: %q", v, marker, got)
			}
		}
	}
}

func TestRenderUnrecognizedPassesThrough(t *testing.T) {
	got := Render("~~strike~~ and ==mark==", VariantCompact)
	if !strings.Contains(got, "~~strike~~") || !strings.Contains(got, "==mark==") {
		t.Errorf("unrecognized syntax should pass through: %q", got)
	}
}

func TestRenderMalformedNeverPanics(t *testing.T) {
	inputs := []string{
		"**unclosed bold",
		"```\nunclosed fence",
		"[text](",
		"![alt](url",
		"`unclosed code",
	}
	for _, in := range inputs {
		got := Render(in, VariantFull)
		if got == "" && in != "" {
			t.Errorf("Render(%q) returned empty output", in)
		}
	}
}

func TestRenderTableFullVariant(t *testing.T) {
	input := "| a | b |\n|---|---|\n| 1 | 2 |"
	full := Render(input, VariantFull)
	if !strings.Contains(full, "<table>") || !strings.Contains(full, "<th>a</th>") || !strings.Contains(full, "<td>1</td>") {
		t.Errorf("full variant table failed: %q", full)
	}
	compact := Render(input, VariantCompact)
	if strings.Contains(compact, "<table>") {
		t.Errorf("compact variant should not render tables: %q", compact)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://example.com", "https://example.com"},
		{"/relative/path", "/relative/path"},
		{"#anchor", "#anchor"},
		{"javascript:alert(1)", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.expected {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
