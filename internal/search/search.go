package search

import (
	"sort"
	"strings"

	"github.com/lshoy/site/internal/domain/content"
)

// RelatedScore 给候选文章打相关度分：每个共享标签 +2，
// 同一个非空系列一次性 +3。
func RelatedScore(current, candidate content.PostSummary) int {
	score := 0
	for _, tag := range current.Tags {
		for _, other := range candidate.Tags {
			if tag == other {
				score += 2
				break
			}
		}
	}
	if current.Series != "" && current.Series == candidate.Series {
		score += 3
	}
	return score
}

// MatchScore 对单篇文章算查询命中分，多个字段命中会累加。
// query 必须已经小写并去掉首尾空白。
func MatchScore(p content.PostSummary, query string) int {
	score := 0
	if strings.Contains(strings.ToLower(p.Title), query) {
		score += 6
	}
	if strings.Contains(strings.ToLower(p.Summary), query) {
		score += 4
	}
	if strings.Contains(strings.ToLower(strings.Join(p.Tags, " ")), query) {
		score += 3
	}
	if strings.Contains(strings.ToLower(p.BodyText), query) {
		score += 1
	}
	return score
}

// GroupIndex 把分组 slug 映射到该节点及其全部后代覆盖的文章 slug 集合。
type GroupIndex map[string]map[string]struct{}

func BuildGroupIndex(groups []content.GroupNode) GroupIndex {
	idx := make(GroupIndex)
	for i := range groups {
		collectGroup(&groups[i], idx)
	}
	return idx
}

func collectGroup(node *content.GroupNode, idx GroupIndex) map[string]struct{} {
	set := make(map[string]struct{}, len(node.Posts))
	for _, p := range node.Posts {
		set[p.Slug] = struct{}{}
	}
	for i := range node.Children {
		for slug := range collectGroup(&node.Children[i], idx) {
			set[slug] = struct{}{}
		}
	}
	idx[node.Slug] = set
	return set
}

// Filter 是交互式浏览的过滤/排序：先按分组圈定范围，再按查询打分。
// 空查询不排序，保持传入顺序；非空查询淘汰 0 分并按分数排序。
func Filter(posts []content.PostSummary, idx GroupIndex, group, query string) []content.PostSummary {
	query = strings.ToLower(strings.TrimSpace(query))

	var scope map[string]struct{}
	if group != "" && group != "all" {
		scope = idx[group]
		if scope == nil {
			return nil
		}
	}

	type match struct {
		post  content.PostSummary
		score int
	}
	var matches []match
	for _, p := range posts {
		if scope != nil {
			if _, ok := scope[p.Slug]; !ok {
				continue
			}
		}
		if query == "" {
			matches = append(matches, match{post: p})
			continue
		}
		if sc := MatchScore(p, query); sc > 0 {
			matches = append(matches, match{post: p, score: sc})
		}
	}

	if query != "" {
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].score != matches[j].score {
				return matches[i].score > matches[j].score
			}
			a, b := matches[i].post, matches[j].post
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			return a.Title < b.Title
		})
	}

	out := make([]content.PostSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.post)
	}
	return out
}
