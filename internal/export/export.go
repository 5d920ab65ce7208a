package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lshoy/site/internal/domain/config"
	"github.com/lshoy/site/internal/store"
)

type Builder struct {
	Cfg config.Config
}

type Result struct {
	Posts int
}

// Run 把一次性算好的数据集落成 JSON 工件，给静态托管方消费。
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	st := store.New(b.Cfg.Content.SourceDir)
	if err := st.Load(); err != nil {
		return nil, fmt.Errorf("store load: %w", err)
	}

	outDir := b.Cfg.Content.ExportDir
	if err := os.MkdirAll(filepath.Join(outDir, "posts"), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir export dir: %w", err)
	}

	if err := writeJSONFile(filepath.Join(outDir, "index.json"), st.Summaries()); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	if err := writeJSONFile(filepath.Join(outDir, "groups.json"), st.Groups()); err != nil {
		return nil, fmt.Errorf("write groups: %w", err)
	}
	if err := writeJSONFile(filepath.Join(outDir, "tags.json"), st.Tags()); err != nil {
		return nil, fmt.Errorf("write tags: %w", err)
	}

	summaries := st.Summaries()
	for _, meta := range summaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		post, ok := st.Get(meta.Slug)
		if !ok {
			continue
		}
		out := filepath.Join(outDir, "posts", post.Slug+".json")
		if err := writeJSONFile(out, post); err != nil {
			return nil, fmt.Errorf("write post %s: %w", post.Slug, err)
		}
	}

	return &Result{Posts: len(summaries)}, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
