package ingest

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// 默认收录的源文件扩展名
var defaultSourceExts = []string{".md", ".markdown"}

type SourceFile struct {
	Path string
}

// DiscoverSource 递归收集源目录下的文档文件，按扩展名过滤
// （大小写不敏感）。不传 exts 时收 Markdown。
func DiscoverSource(root string, exts ...string) ([]SourceFile, error) {
	if len(exts) == 0 {
		exts = defaultSourceExts
	}
	match := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		match[strings.ToLower(e)] = struct{}{}
	}

	var out []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := match[strings.ToLower(filepath.Ext(path))]; ok {
			out = append(out, SourceFile{Path: path})
		}
		return nil
	})
	return out, err
}
