package ingest

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/lshoy/site/internal/domain/content"
	"github.com/lshoy/site/internal/render"
	"github.com/lshoy/site/internal/text"
)

const excerptLimit = 180

type Warning struct {
	Path string
	Msg  string
}

type Result struct {
	Post  content.Post
	Warns []Warning
	Skip  bool
	Err   error
}

// Ingest 一次性读入全部文档并构造 Post。单篇文档出错只产生警告，
// 不会拖垮其余文档；文件 I/O 错误才会中断整次加载。
func Ingest(sourceDir string) ([]content.Post, []Warning, error) {
	files, err := DiscoverSource(sourceDir)
	if err != nil {
		return nil, nil, err
	}

	md := render.NewMarkdownRenderer()

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan int)
	// 按文件顺序写入各自的槽位，保证结果顺序稳定
	results := make([]Result, len(files))

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = buildPost(md, files[idx])
			}
		}()
	}

	for idx := range files {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var out []content.Post
	var warns []Warning
	for _, r := range results {
		if r.Err != nil {
			return nil, nil, r.Err
		}
		if len(r.Warns) > 0 {
			warns = append(warns, r.Warns...)
		}
		if r.Skip {
			continue
		}
		out = append(out, r.Post)
	}

	// slug 冲突：先到先得，后来的跳过
	seen := make(map[string]struct{}, len(out))
	filtered := make([]content.Post, 0, len(out))
	for _, p := range out {
		if _, ok := seen[p.Slug]; ok {
			warns = append(warns, Warning{Msg: "duplicate slug, skipped: " + p.Slug})
			continue
		}
		seen[p.Slug] = struct{}{}
		filtered = append(filtered, p)
	}
	return filtered, warns, nil
}

func buildPost(md *render.MarkdownRenderer, sf SourceFile) Result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return Result{Err: err}
	}

	fm, body, fmErr := ParseFrontMatter(raw)
	if fmErr != nil {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()}},
			Skip:  true,
		}
	}
	meta := NormalizeFrontMatter(fm)

	base := filepath.Base(sf.Path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	title := meta.Title
	if title == "" {
		title = text.TitleFromFilename(stem)
	}
	if title == "" {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "no title, skipped"}},
			Skip:  true,
		}
	}

	slug := meta.Slug
	if slug == "" {
		slug = text.Slugify(stem)
	}
	if slug == "" {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "empty slug, skipped"}},
			Skip:  true,
		}
	}

	res, err := md.Render(body)
	if err != nil {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "render failed: " + err.Error()}},
			Skip:  true,
		}
	}

	bodyText := text.StripFormatting(string(body))
	excerpt := meta.Summary
	if excerpt == "" {
		excerpt = text.Truncate(bodyText, excerptLimit)
	}

	return Result{
		Post: content.Post{
			PostSummary: content.PostSummary{
				Slug:         slug,
				Title:        title,
				Summary:      meta.Summary,
				Date:         meta.Date,
				Tags:         meta.Tags,
				CosmeticTags: meta.CosmeticTags,
				Series:       meta.Series,
				ReadingTime:  text.EstimateReadingTime(string(body)),
				Excerpt:      excerpt,
				HeroImage:    meta.HeroImage,
				BodyText:     bodyText,
			},
			HTML:     res.HTML,
			Headings: res.Headings,
		},
	}
}
