package ingest

import (
	"bytes"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/lshoy/site/internal/domain/content"
	"github.com/lshoy/site/internal/text"
)

// stringList 接受 yaml 序列或单个逗号分隔的标量，统一成切片。
type stringList []string

func (l *stringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var items []string
	if err := unmarshal(&items); err == nil {
		*l = items
		return nil
	}
	var single string
	if err := unmarshal(&single); err != nil {
		// 形状不对的标签字段当作缺失，绝不因此拒绝整篇文档
		*l = nil
		return nil
	}
	*l = strings.Split(single, ",")
	return nil
}

type FrontMatter struct {
	Title        string     `yaml:"title"`
	Summary      string     `yaml:"summary"`
	Date         string     `yaml:"date"`
	Tags         stringList `yaml:"tags"`
	CosmeticTags stringList `yaml:"cosmeticTags"`
	CosmeticAlt  stringList `yaml:"cosmetic-tags"`
	Series       string     `yaml:"series"`
	Slug         string     `yaml:"slug"`
	HeroImage    string     `yaml:"heroImage"`
}

// ParseFrontMatter 切出元数据块并返回正文。没有 front matter 时
// body 就是原文，不算错误。
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// NormalizeFrontMatter 把松散的原始字段归一化成规范形状。
// 解析不了的日期直接丢弃，永远不会因此拒绝整篇文档。
func NormalizeFrontMatter(fm FrontMatter) content.Frontmatter {
	cosmetic := fm.CosmeticTags
	if len(cosmetic) == 0 {
		cosmetic = fm.CosmeticAlt
	}

	var slug string
	if s := strings.TrimSpace(fm.Slug); s != "" {
		slug = text.Slugify(s)
	}

	return content.Frontmatter{
		Title:        strings.TrimSpace(fm.Title),
		Summary:      strings.TrimSpace(fm.Summary),
		Date:         ParseTime(fm.Date),
		Tags:         content.NormalizeTags(fm.Tags),
		CosmeticTags: content.NormalizeTags(cosmetic),
		Series:       strings.TrimSpace(fm.Series),
		Slug:         slug,
		HeroImage:    strings.TrimSpace(fm.HeroImage),
	}
}

func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		time.DateOnly,
		"2006-01-02 15:04",
		time.DateTime,
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
