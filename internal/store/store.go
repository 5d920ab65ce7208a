package store

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lshoy/site/internal/domain/content"
	"github.com/lshoy/site/internal/ingest"
	"github.com/lshoy/site/internal/search"
)

const defaultLimit = 3

// Store 进程生命周期内只加载一次，之后只读，任意并发读都是安全的。
type Store struct {
	sourceDir string

	once    sync.Once
	loadErr error

	posts     []content.Post
	summaries []content.PostSummary
	bySlug    map[string]int

	groupOnce sync.Once
	groups    content.GroupSummary
}

func New(sourceDir string) *Store {
	return &Store{sourceDir: sourceDir}
}

// Load 读入全部文档，排序并建立索引。重复调用返回同一份结果。
func (s *Store) Load() error {
	s.once.Do(func() {
		posts, warns, err := ingest.Ingest(s.sourceDir)
		if err != nil {
			s.loadErr = err
			// 读侧会吞掉返回值，这里至少留一条记录
			log.Printf("[store] load failed: %v", err)
			return
		}
		for _, w := range warns {
			if w.Path != "" {
				log.Printf("[warn] %s: %s", w.Path, w.Msg)
			} else {
				log.Printf("[warn] %s", w.Msg)
			}
		}

		sort.SliceStable(posts, func(i, j int) bool {
			return lessSummary(posts[i].PostSummary, posts[j].PostSummary)
		})

		s.posts = posts
		s.summaries = make([]content.PostSummary, len(posts))
		s.bySlug = make(map[string]int, len(posts))
		for i, p := range posts {
			s.summaries[i] = p.Summary()
			s.bySlug[p.Slug] = i
		}
		log.Printf("[store] loaded %d posts from %s", len(posts), s.sourceDir)
	})
	return s.loadErr
}

// 日期新的在前，没有日期当最早处理；同一时刻按标题升序。
func lessSummary(a, b content.PostSummary) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Title < b.Title
}

func sortSummaries(items []content.PostSummary) {
	sort.SliceStable(items, func(i, j int) bool {
		return lessSummary(items[i], items[j])
	})
}

func (s *Store) Summaries() []content.PostSummary {
	_ = s.Load()
	return s.summaries
}

func (s *Store) Get(slug string) (content.Post, bool) {
	_ = s.Load()
	i, ok := s.bySlug[slug]
	if !ok {
		return content.Post{}, false
	}
	return s.posts[i], true
}

func (s *Store) Latest(n int) []content.PostSummary {
	if n <= 0 {
		n = defaultLimit
	}
	all := s.Summaries()
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// Related 按共享标签和同系列打分，0 分的淘汰。
func (s *Store) Related(slug string, limit int) []content.PostSummary {
	if limit <= 0 {
		limit = defaultLimit
	}
	current, ok := s.Get(slug)
	if !ok {
		return nil
	}

	type scored struct {
		summary content.PostSummary
		score   int
	}
	var candidates []scored
	for _, p := range s.posts {
		if p.Slug == slug {
			continue
		}
		if sc := search.RelatedScore(current.PostSummary, p.PostSummary); sc > 0 {
			candidates = append(candidates, scored{summary: p.Summary(), score: sc})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].summary.Date.After(candidates[j].summary.Date)
	})
	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]content.PostSummary, 0, limit)
	for _, c := range candidates[:limit] {
		out = append(out, c.summary)
	}
	return out
}

func (s *Store) Groups() content.GroupSummary {
	_ = s.Load()
	s.groupOnce.Do(func() {
		s.groups = content.GroupSummary{
			Groups:    BuildGroupTree(s.summaries),
			FlatPosts: s.summaries,
			UpdatedAt: latestDate(s.summaries),
		}
	})
	return s.groups
}

// Tags 返回按原始大小写去重、字典序排序的所有标签。
func (s *Store) Tags() []string {
	_ = s.Load()
	set := make(map[string]struct{})
	for _, p := range s.summaries {
		for _, tag := range p.Tags {
			set[tag] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func latestDate(items []content.PostSummary) time.Time {
	var latest time.Time
	for _, p := range items {
		if p.Date.After(latest) {
			latest = p.Date
		}
	}
	return latest
}
