package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	gtext "github.com/yuin/goldmark/text"

	"github.com/lshoy/site/internal/domain/content"
	"github.com/lshoy/site/internal/text"
)

// 只给 h1~h4 生成锚点，h5/h6 不进目录。
const maxHeadingLevel = 4

type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &MarkdownRenderer{md: md}
}

type MarkdownResult struct {
	HTML     string
	Headings []content.Heading
}

// Render 渲染正文并抽取标题锚点。同一篇文档内 id 冲突时追加 -1、-2…，
// 同样的输入永远得到同样的 id（深链接依赖这点）。
func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	doc := r.md.Parser().Parse(gtext.NewReader(src))

	seen := make(map[string]int)
	var heads []content.Heading

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level > maxHeadingLevel {
			return ast.WalkContinue, nil
		}

		title := strings.TrimSpace(flattenText(h, src))
		base := text.Slugify(title)
		if base == "" {
			base = fmt.Sprintf("section-%d", len(heads)+1)
		}
		id := base
		if c := seen[base]; c > 0 {
			id = fmt.Sprintf("%s-%d", base, c)
		}
		seen[base]++

		h.SetAttributeString("id", []byte(id))
		heads = append(heads, content.Heading{
			ID:    id,
			Title: title,
			Level: h.Level,
		})
		return ast.WalkContinue, nil
	})
	if err != nil {
		return MarkdownResult{}, err
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{
		HTML:     buf.String(),
		Headings: heads,
	}, nil
}

func flattenText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
