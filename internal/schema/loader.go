package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile — формат YAML-файла с формами.
type catalogFile struct {
	Forms []Form `yaml:"forms"`
}

// ParseCatalog разбирает YAML-документ с формами.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	c := NewCatalog()
	for _, f := range doc.Forms {
		for i := range f.Fields {
			f.Fields[i].Type = FieldType(strings.ToLower(strings.TrimSpace(string(f.Fields[i].Type))))
		}
		c.Add(f)
	}
	return c, nil
}

// LoadCatalogFile читает один YAML-файл с формами.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// LoadDir читает все *.yaml/*.yml и *.form файлы из папки (без рекурсии).
// Файлы обрабатываются в лексикографическом порядке.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	result := NewCatalog()
	for _, name := range names {
		path := filepath.Join(dir, name)
		var (
			c   *Catalog
			err error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".yaml", ".yml":
			c, err = LoadCatalogFile(path)
		case ".form":
			c, err = LoadDSLFile(path)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, t := range c.Types() {
			if _, dup := result.forms[t]; dup {
				return nil, fmt.Errorf("duplicate form type %q (file: %s)", t, path)
			}
		}
		result.Merge(c)
	}
	return result, nil
}
