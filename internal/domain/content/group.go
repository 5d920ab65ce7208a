package content

import "time"

// GroupNode 是标签路径上的一层，posts 只存引用级别的摘要，不拥有文章。
type GroupNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Slug     string        `json:"slug"`
	Depth    int           `json:"depth"`
	Posts    []PostSummary `json:"posts"`
	Children []GroupNode   `json:"children"`
}

type GroupSummary struct {
	Groups    []GroupNode   `json:"groups"`
	FlatPosts []PostSummary `json:"flatPosts"`
	UpdatedAt time.Time     `json:"updatedAt,omitzero"`
}
