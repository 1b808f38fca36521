package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// Source loads baskets of companies from a location such as a file path.
type Source interface {
	Load(ctx context.Context, spec any) ([]types.Basket, error)
}

// parser turns one file's contents into baskets.
type parser func(data []byte) ([]types.Basket, error)

var (
	yamlParsers = map[string]parser{".yaml": parseYAML, ".yml": parseYAML, ".json": parseYAML}
	htmlParsers = map[string]parser{".html": parseHTML, ".htm": parseHTML}
)

// YAMLSource loads baskets from YAML or JSON files.
type YAMLSource struct{}

// Load expects spec to be a file or directory path.
func (YAMLSource) Load(ctx context.Context, spec any) ([]types.Basket, error) {
	return load(ctx, spec, yamlParsers)
}

// HTMLSource loads one company per saved HTML statement page.
type HTMLSource struct{}

// Load expects spec to be a file or directory path.
func (HTMLSource) Load(ctx context.Context, spec any) ([]types.Basket, error) {
	return load(ctx, spec, htmlParsers)
}

// FileSource accepts every supported format, chosen by file extension.
type FileSource struct{}

// Load expects spec to be a file or directory path.
func (FileSource) Load(ctx context.Context, spec any) ([]types.Basket, error) {
	all := make(map[string]parser, len(yamlParsers)+len(htmlParsers))
	for ext, p := range yamlParsers {
		all[ext] = p
	}
	for ext, p := range htmlParsers {
		all[ext] = p
	}
	return load(ctx, spec, all)
}

func load(ctx context.Context, spec any, parsers map[string]parser) ([]types.Basket, error) {
	path, ok := spec.(string)
	if !ok {
		return nil, fmt.Errorf("file source expects filepath string spec")
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		p, ok := parsers[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil, fmt.Errorf("%s: unsupported file type", path)
		}
		baskets, err := parseFile(path, p)
		if err != nil {
			return nil, err
		}
		// An unnamed basket takes the file name.
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		for i := range baskets {
			if strings.TrimSpace(baskets[i].Name) == "" {
				baskets[i].Name = base
			}
		}
		return baskets, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := parsers[strings.ToLower(filepath.Ext(d.Name()))]; ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var all []types.Basket
	for _, full := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		baskets, err := parseFile(full, parsers[strings.ToLower(filepath.Ext(full))])
		if err != nil {
			return nil, err
		}
		// Prefix from the relative path without extension, using forward slashes.
		rel, err := filepath.Rel(path, full)
		if err != nil {
			rel = filepath.Base(full)
		}
		prefix := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		for i := range baskets {
			if strings.TrimSpace(baskets[i].Name) == "" {
				baskets[i].Name = prefix
			} else if prefix != "" {
				baskets[i].Name = prefix + "/" + baskets[i].Name
			}
		}
		all = append(all, baskets...)
	}
	return all, nil
}

func parseFile(path string, p parser) ([]types.Basket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	baskets, err := p(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return baskets, nil
}

// Flatten merges every basket into one named name, keeping company order.
// Columns come from the first basket that declares any.
func Flatten(name string, baskets []types.Basket) types.Basket {
	out := types.Basket{Name: name}
	for _, b := range baskets {
		if len(out.Columns) == 0 {
			out.Columns = append([]string(nil), b.Columns...)
		}
		out.Companies = append(out.Companies, b.Companies...)
	}
	return out
}
