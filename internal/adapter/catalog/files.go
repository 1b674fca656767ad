package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"reco/internal/domain"
)

// FileSource reads product lists from JSON and YAML files under a
// directory. Files are read in lexical path order and concatenated.
type FileSource struct {
	root     string
	includes []string
	excludes []string
}

func NewFileSource(root string, includes, excludes []string) *FileSource {
	if len(includes) == 0 {
		includes = []string{"**/*.json", "**/*.yaml", "**/*.yml"}
	}
	return &FileSource{
		root:     root,
		includes: includes,
		excludes: excludes,
	}
}

func (s *FileSource) FetchCatalog(ctx context.Context) ([]domain.Item, error) {
	paths, err := s.walk()
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog files: %w", err)
	}

	var items []domain.Item
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileItems, err := readItems(path)
		if err != nil {
			return nil, err
		}
		items = append(items, fileItems...)
	}
	return items, nil
}

func (s *FileSource) walk() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchAny(s.excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if matchAny(s.includes, rel) && !matchAny(s.excludes, rel) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}

func readItems(path string) ([]domain.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []domain.Item
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &items)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &items)
	default:
		return nil, fmt.Errorf("unsupported catalog file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return items, nil
}
