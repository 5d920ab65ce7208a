package text

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Hello World", want: "hello-world"},
		{name: "punctuation_stripped", in: "What's in a name?", want: "whats-in-a-name"},
		{name: "whitespace_run", in: "  a \t b  ", want: "a-b"},
		{name: "repeated_hyphens", in: "a---b", want: "a-b"},
		{name: "leading_trailing", in: "-hello-", want: "hello"},
		{name: "only_punctuation", in: "!!!", want: ""},
		{name: "digits", in: "Top 10 Posts", want: "top-10-posts"},
		{name: "unicode_dropped", in: "héllo wörld", want: "hllo-wrld"},
	}

	valid := regexp.MustCompile(`^[a-z0-9-]*$`)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Slugify(tc.in)
			require.Equal(t, tc.want, got)
			require.Regexp(t, valid, got)
			require.Equal(t, got, Slugify(got), "slugify must be idempotent")
			require.False(t, strings.HasPrefix(got, "-"))
			require.False(t, strings.HasSuffix(got, "-"))
			require.NotContains(t, got, "--")
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "my-first-post", want: "My First Post"},
		{in: "some_long__name", want: "Some Long Name"},
		{in: "already Title", want: "Already Title"},
		{in: "...", want: "..."},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, TitleFromFilename(tc.in), "stem %q", tc.in)
	}
}

func TestStripFormatting(t *testing.T) {
	t.Parallel()

	md := "# Heading\n\nSome *emphasis* and `inline code` plus\n\n```go\nfunc main() {}\n```\n\n![alt text](img.png) and [a link](https://example.com).\n"
	got := StripFormatting(md)

	require.NotContains(t, got, "`")
	require.NotContains(t, got, "](")
	require.NotContains(t, got, "img.png")
	require.NotContains(t, got, "func main")
	require.Contains(t, got, "Heading")
	require.Contains(t, got, "emphasis")
	require.Contains(t, got, "a link")
	require.NotContains(t, got, "  ")
}

func TestEstimateReadingTime(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1 min read", EstimateReadingTime(""))
	require.Equal(t, "1 min read", EstimateReadingTime("just a few words"))

	long := strings.Repeat("word ", 400)
	require.Equal(t, "2 min read", EstimateReadingTime(long))

	exact := strings.Repeat("word ", 500)
	require.Equal(t, "3 min read", EstimateReadingTime(exact))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", Truncate("short", 10))

	in := strings.Repeat("a", 179) + " tail"
	got := Truncate(in, 180)
	require.LessOrEqual(t, len([]rune(got)), 180)
	require.True(t, strings.HasSuffix(got, "…"))
	require.True(t, strings.HasPrefix(in, strings.TrimSuffix(got, "…")))
}
