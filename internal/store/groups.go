package store

import (
	"sort"
	"strings"

	"github.com/lshoy/site/internal/domain/content"
	"github.com/lshoy/site/internal/text"
)

// 可变阶段的节点。childMap 按段的 slug 寻址，冻结后只剩只读树。
type groupNode struct {
	id       string
	label    string
	slug     string
	depth    int
	posts    []content.PostSummary
	children []*groupNode
	childMap map[string]*groupNode
}

type tagSegment struct {
	label string
	slug  string
}

// BuildGroupTree 把扁平标签（支持 "a/b" 路径写法）铺成去重的分组森林。
// 路径上的每一层都会收到这篇文章，所以 "science/physics" 的文章
// 同时挂在 science 和 science/physics 两个节点上。
func BuildGroupTree(posts []content.PostSummary) []content.GroupNode {
	var roots []*groupNode
	rootMap := make(map[string]*groupNode)
	var ungrouped []content.PostSummary

	for _, post := range posts {
		if len(post.Tags) == 0 {
			ungrouped = append(ungrouped, post)
			continue
		}
		for _, tag := range post.Tags {
			segments := splitTagPath(tag)
			if len(segments) == 0 {
				// 标签劈完全是空段：归入 Ungrouped，而不是悄悄丢掉
				ungrouped = append(ungrouped, post)
				continue
			}
			roots = insertTagPath(segments, post, roots, rootMap)
		}
	}

	if len(ungrouped) > 0 {
		roots = append(roots, &groupNode{
			id:    "group-ungrouped",
			label: "Ungrouped",
			slug:  "ungrouped",
			depth: 0,
			posts: ungrouped,
		})
	}

	return finalizeGroupNodes(roots)
}

func insertTagPath(segments []tagSegment, post content.PostSummary, roots []*groupNode, rootMap map[string]*groupNode) []*groupNode {
	var parent *groupNode
	currentMap := rootMap

	for depth, seg := range segments {
		node := currentMap[seg.slug]
		if node == nil {
			slug := seg.slug
			if parent != nil {
				slug = parent.slug + "/" + seg.slug
			}
			node = &groupNode{
				id:       slug,
				label:    formatGroupLabel(seg.label),
				slug:     slug,
				depth:    depth,
				childMap: make(map[string]*groupNode),
			}
			currentMap[seg.slug] = node
			if parent != nil {
				parent.children = append(parent.children, node)
			} else {
				roots = append(roots, node)
			}
		}
		node.posts = append(node.posts, post)
		parent = node
		currentMap = node.childMap
	}
	return roots
}

func splitTagPath(tag string) []tagSegment {
	var out []tagSegment
	for _, seg := range strings.Split(tag, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key := text.Slugify(seg)
		if key == "" {
			key = strings.Join(strings.Fields(strings.ToLower(seg)), "-")
		}
		out = append(out, tagSegment{label: seg, slug: key})
	}
	return out
}

func formatGroupLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Untitled"
	}
	return label
}

// finalizeGroupNodes 冻结成只读快照：同层按 label 排序（相同 label 再比
// slug，保证跨次运行稳定），文章按 slug 去重后重排。
func finalizeGroupNodes(nodes []*groupNode) []content.GroupNode {
	sorted := make([]*groupNode, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].label != sorted[j].label {
			return sorted[i].label < sorted[j].label
		}
		return sorted[i].slug < sorted[j].slug
	})

	out := make([]content.GroupNode, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, content.GroupNode{
			ID:       n.id,
			Label:    n.label,
			Slug:     n.slug,
			Depth:    n.depth,
			Posts:    dedupeAndSort(n.posts),
			Children: finalizeGroupNodes(n.children),
		})
	}
	return out
}

func dedupeAndSort(posts []content.PostSummary) []content.PostSummary {
	seen := make(map[string]struct{}, len(posts))
	unique := make([]content.PostSummary, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.Slug]; ok {
			continue
		}
		seen[p.Slug] = struct{}{}
		unique = append(unique, p)
	}
	sortSummaries(unique)
	return unique
}
