package text

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Slugify 输出只含 [a-z0-9-]，无首尾/重复连字符。幂等。
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var out []rune
	lastDash := false
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			out = append(out, r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}

var filenameSep = strings.NewReplacer("-", " ", "_", " ")

func TitleFromFilename(stem string) string {
	words := strings.Fields(filenameSep.Replace(stem))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	markerRe     = regexp.MustCompile("[#>*_~-]")
	spaceRe      = regexp.MustCompile(`\s+`)
)

// StripFormatting 把 Markdown 剥成纯文本，用于搜索索引和摘要。
// 尽力而为：代码/链接/图片语法不允许漏到输出里。
func StripFormatting(markdown string) string {
	s := fencedCodeRe.ReplaceAllString(markdown, " ")
	s = inlineCodeRe.ReplaceAllString(s, " ")
	s = imageRe.ReplaceAllString(s, " ")
	s = linkRe.ReplaceAllString(s, "$1")
	s = markerRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// EstimateReadingTime 按 200 词/分钟估算，至少 1 分钟。
func EstimateReadingTime(s string) string {
	words := len(strings.Fields(s))
	minutes := int(math.Round(float64(words) / 200))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	cut := strings.TrimRight(string(runes[:maxLen-1]), " \t\n")
	return cut + "…"
}
