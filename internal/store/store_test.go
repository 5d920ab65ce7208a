package store

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newTestStore(t *testing.T, docs map[string]string) *Store {
	t.Helper()
	dir := t.TempDir()
	for name, body := range docs {
		writeDoc(t, dir, name, body)
	}
	s := New(dir)
	require.NoError(t, s.Load())
	return s
}

func TestSummariesSortedByDateDesc(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"old.md":    "---\ntitle: Oldest\ndate: 2023-01-01\n---\nx\n",
		"new.md":    "---\ntitle: Newest\ndate: 2024-06-01\n---\nx\n",
		"nodate.md": "---\ntitle: Dateless\n---\nx\n",
	})

	got := s.Summaries()
	require.Len(t, got, 3)
	require.Equal(t, "Newest", got[0].Title)
	require.Equal(t, "Oldest", got[1].Title)
	require.Equal(t, "Dateless", got[2].Title, "missing date sorts as earliest")
}

func TestSummariesDateTieBrokenByTitle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"b.md": "---\ntitle: B\ndate: 2024-01-01\n---\nx\n",
		"a.md": "---\ntitle: A\ndate: 2024-01-01\n---\nx\n",
	})

	got := s.Summaries()
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Title)
	require.Equal(t, "B", got[1].Title)
}

func TestGet(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"hello.md": "---\ntitle: Hello\n---\n\n## Intro\n\nbody\n",
	})

	post, ok := s.Get("hello")
	require.True(t, ok)
	require.Equal(t, "Hello", post.Title)
	require.NotEmpty(t, post.HTML)
	require.Len(t, post.Headings, 1)
	require.Equal(t, "intro", post.Headings[0].ID)

	_, ok = s.Get("missing")
	require.False(t, ok, "lookup miss is an absent result, not an error")
}

func TestLatest(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"p1.md": "---\ntitle: P1\ndate: 2024-01-01\n---\nx\n",
		"p2.md": "---\ntitle: P2\ndate: 2024-02-01\n---\nx\n",
		"p3.md": "---\ntitle: P3\ndate: 2024-03-01\n---\nx\n",
		"p4.md": "---\ntitle: P4\ndate: 2024-04-01\n---\nx\n",
	})

	got := s.Latest(2)
	require.Len(t, got, 2)
	require.Equal(t, "P4", got[0].Title)
	require.Equal(t, "P3", got[1].Title)

	require.Len(t, s.Latest(0), 3, "non-positive count falls back to default")
	require.Len(t, s.Latest(10), 4)
}

func TestRelatedScoring(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"x.md": "---\ntitle: X\ntags: [a, b]\nseries: S\ndate: 2024-01-01\n---\nx\n",
		"y.md": "---\ntitle: Y\ntags: [a, c]\nseries: S\ndate: 2024-01-02\n---\nx\n",
		"z.md": "---\ntitle: Z\ntags: [a, b]\ndate: 2024-01-03\n---\nx\n",
		"w.md": "---\ntitle: W\ntags: [unrelated]\ndate: 2024-01-04\n---\nx\n",
	})

	// Y: 共享标签 a (+2) + 同系列 (+3) = 5；Z: 共享 a、b (+4)；W: 0 分淘汰
	got := s.Related("x", 2)
	require.Len(t, got, 2)
	require.Equal(t, "Y", got[0].Title)
	require.Equal(t, "Z", got[1].Title)

	require.Empty(t, s.Related("unknown-slug", 3))
}

func TestTags(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"one.md": "---\ntitle: One\ntags: [go, Zig]\n---\nx\n",
		"two.md": "---\ntitle: Two\ntags: [go, ada]\n---\nx\n",
	})

	require.Equal(t, []string{"Zig", "ada", "go"}, s.Tags())
}

func TestGroupsSummary(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"tagged.md":   "---\ntitle: Tagged\ntags: [ideas]\ndate: 2024-05-01\n---\nx\n",
		"untagged.md": "---\ntitle: Untagged\n---\nx\n",
	})

	sum := s.Groups()
	require.Len(t, sum.FlatPosts, 2)
	require.Equal(t, 2024, sum.UpdatedAt.Year())

	labels := make([]string, 0, len(sum.Groups))
	for _, g := range sum.Groups {
		labels = append(labels, g.Label)
	}
	require.Equal(t, []string{"Ungrouped", "ideas"}, labels)
}

func TestGroupsUpdatedAtAbsentWithoutDates(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, map[string]string{
		"a.md": "---\ntitle: A\n---\nx\n",
	})

	require.True(t, s.Groups().UpdatedAt.IsZero())
}

func TestLoadFailureLoggedAndMemoized(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	s := New(filepath.Join(t.TempDir(), "no-such-dir"))
	err := s.Load()
	require.Error(t, err)
	require.Contains(t, buf.String(), "load failed")

	// 读侧不 panic，返回空集；错误保持可取
	require.Empty(t, s.Summaries())
	require.Empty(t, s.Tags())
	_, ok := s.Get("anything")
	require.False(t, ok)
	require.ErrorIs(t, s.Load(), err)
}
