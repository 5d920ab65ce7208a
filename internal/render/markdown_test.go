package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lshoy/site/internal/domain/content"
)

func TestRenderGFM(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~ and https://example.com\n")

	res, err := md.Render(src)
	require.NoError(t, err)
	require.Contains(t, res.HTML, "<table>")
	require.Contains(t, res.HTML, "<del>gone</del>")
	require.Contains(t, res.HTML, `<a href="https://example.com"`)
}

func TestRenderHeadingAnchors(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte("## Intro\n\ntext\n\n## Intro\n\nmore\n\n## Intro\n\n### Deep Dive\n")

	res, err := md.Render(src)
	require.NoError(t, err)

	require.Equal(t, []content.Heading{
		{ID: "intro", Title: "Intro", Level: 2},
		{ID: "intro-1", Title: "Intro", Level: 2},
		{ID: "intro-2", Title: "Intro", Level: 2},
		{ID: "deep-dive", Title: "Deep Dive", Level: 3},
	}, res.Headings)

	require.Contains(t, res.HTML, `<h2 id="intro">`)
	require.Contains(t, res.HTML, `<h2 id="intro-1">`)
	require.Contains(t, res.HTML, `<h3 id="deep-dive">`)
}

func TestRenderHeadingLevels(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte("# One\n\n#### Four\n\n##### Five\n\n###### Six\n")

	res, err := md.Render(src)
	require.NoError(t, err)

	require.Len(t, res.Headings, 2)
	require.Equal(t, 1, res.Headings[0].Level)
	require.Equal(t, 4, res.Headings[1].Level)
}

func TestRenderHeadingFallbackID(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte("## !!!\n\n## Real Title\n\n## ???\n")

	res, err := md.Render(src)
	require.NoError(t, err)

	require.Len(t, res.Headings, 3)
	require.Equal(t, "section-1", res.Headings[0].ID)
	require.Equal(t, "real-title", res.Headings[1].ID)
	require.Equal(t, "section-3", res.Headings[2].ID)
}

func TestRenderFlattensNestedHeadingText(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte("## Some *styled* [linked](https://example.com) title\n")

	res, err := md.Render(src)
	require.NoError(t, err)
	require.Len(t, res.Headings, 1)
	require.Equal(t, "Some styled linked title", res.Headings[0].Title)
	require.Equal(t, "some-styled-linked-title", res.Headings[0].ID)
}

func TestRenderMalformedInput(t *testing.T) {
	t.Parallel()

	md := NewMarkdownRenderer()
	src := []byte("[broken link(\n\n**unclosed emphasis\n\n<div>raw html\n")

	res, err := md.Render(src)
	require.NoError(t, err)
	require.NotEmpty(t, res.HTML)
}
