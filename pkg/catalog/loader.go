package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formtemplate/pkg/template"
)

// LoadFS walks fsys and builds a Catalog from every JSON/YAML document found.
// Files are visited in lexical order so insertion order is deterministic
// across runs. Read and parse failures wrap ErrCatalogUnavailable; content
// problems surface as *template.ValidationError.
func LoadFS(fsys fs.FS, options ...Option) (*Catalog, error) {
	if fsys == nil {
		return nil, fmt.Errorf("catalog: nil filesystem: %w", ErrCatalogUnavailable)
	}
	cfg := newConfig(options...)

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isCatalogFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: walk: %v: %w", err, ErrCatalogUnavailable)
	}
	sort.Strings(paths)

	var (
		templates []template.FormTemplate
		community []template.CommunityTemplate
	)
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %v: %w", path, err, ErrCatalogUnavailable)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return nil, err
		}
		cfg.logger.Debug("catalog file loaded",
			zap.String("path", path),
			zap.Int("templates", len(doc.Templates)),
			zap.Int("community", len(doc.Community)),
		)
		templates = append(templates, doc.Templates...)
		community = append(community, doc.Community...)
	}

	c, err := New(templates, community, options...)
	if err != nil {
		return nil, err
	}
	cfg.logger.Info("catalog loaded",
		zap.Int("files", len(paths)),
		zap.Int("templates", len(c.templates)),
		zap.Int("community", len(c.community)),
	)
	return c, nil
}

// LoadDir loads a catalog from a directory on disk.
func LoadDir(dir string, options ...Option) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: stat %s: %v: %w", dir, err, ErrCatalogUnavailable)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("catalog: %s is not a directory: %w", dir, ErrCatalogUnavailable)
	}
	return LoadFS(os.DirFS(dir), options...)
}

type documentFile struct {
	Templates []template.FormTemplate      `json:"templates" yaml:"templates"`
	Community []template.CommunityTemplate `json:"community" yaml:"community"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("catalog: file %s is empty: %w", source, ErrCatalogUnavailable)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("catalog: parse %s: invalid JSON or YAML: %w", source, ErrCatalogUnavailable)
}

func isCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
