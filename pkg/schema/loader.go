package schema

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sgerrors "github.com/osduviz/schemagraph/pkg/errors"
)

// LoadDir walks a directory tree of OSDU schema files (*.json, including
// the minified *.min.json bundles) and builds an index keyed by the path
// relative to dir, using forward slashes.
//
// Files that fail to parse are skipped: a broken schema should degrade a
// single entry, not the whole index.
func LoadDir(dir string) (*Index, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, sgerrors.New(sgerrors.ErrCodeInvalidPath, "schema directory %s not found", dir)
	}

	docs := make(map[string]Document)
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		doc, err := Parse(data)
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		docs[filepath.ToSlash(rel)] = doc
		return nil
	})
	if walkErr != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeInvalidPath, walkErr, "walk schema directory %s", dir)
	}
	return NewIndex(docs), nil
}

// LoadFile reads and parses a single schema document.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeFileNotFound, err, "read schema %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeInvalidSchema, err, "parse schema %s", path)
	}
	return doc, nil
}
