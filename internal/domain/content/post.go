package content

import (
	"strings"
	"time"
)

// Frontmatter 是归一化之后的元数据，下游只会看到这个形状。
type Frontmatter struct {
	Title        string
	Summary      string
	Date         time.Time
	Tags         []string
	CosmeticTags []string
	Series       string
	Slug         string
	HeroImage    string
}

type Heading struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

type PostSummary struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Date         time.Time `json:"date,omitzero"`
	Tags         []string  `json:"tags"`
	CosmeticTags []string  `json:"cosmeticTags"`
	Series       string    `json:"series,omitempty"`
	ReadingTime  string    `json:"readingTime"`
	Excerpt      string    `json:"excerpt"`
	HeroImage    string    `json:"heroImage,omitempty"`
	BodyText     string    `json:"bodyText"`
}

type Post struct {
	PostSummary
	HTML     string    `json:"html"`
	Headings []Heading `json:"headings"`
}

// Summary 丢掉 HTML 和 Headings，列表场景只用元数据。
func (p Post) Summary() PostSummary {
	return p.PostSummary
}

// NormalizeTags 去掉空白项并以小写去重，保留首次出现的大小写和顺序。
func NormalizeTags(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
