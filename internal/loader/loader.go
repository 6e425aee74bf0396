// Package loader reads source records from disk.
//
// Every record is parsed twice: once into a generic document tree used for
// schema checks, and once into its typed entity used for structural checks.
// The two passes are independent so a record can fail one without affecting
// the other.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/heimdal-dev/pkgdb/internal/report"
	"github.com/heimdal-dev/pkgdb/internal/scanner"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Document is the generic form of a source record
type Document struct {
	Path string
	Stem string
	Raw  []byte
	Tree any
}

// Record is a source record decoded into its typed entity
type Record[T any] struct {
	Path   string
	Stem   string
	Entity T
}

// Gate checks a document before typed decoding and returns one message per
// violated constraint. A document with violations is not decoded.
type Gate func(doc *Document) []string

// Read reads path and parses it into a generic document tree
func Read(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.PkgDBError{
			Type: models.ErrFileOp,
			Path: path,
			Err:  fmt.Errorf("failed to read: %w", err),
		}
	}

	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, &models.PkgDBError{
			Type: models.ErrParse,
			Path: path,
			Err:  fmt.Errorf("failed to parse YAML: %w", err),
		}
	}

	if field, ok := invalidUTF8(tree, ""); ok {
		return nil, &models.PkgDBError{
			Type: models.ErrParse,
			Path: path,
			Err:  fmt.Errorf("field %s is not valid UTF-8", field),
		}
	}

	return &Document{
		Path: path,
		Stem: scanner.Stem(path),
		Raw:  raw,
		Tree: tree,
	}, nil
}

// Decode parses the raw bytes of doc into a typed entity
func Decode[T any](doc *Document) (T, error) {
	var entity T
	if err := yaml.Unmarshal(doc.Raw, &entity); err != nil {
		return entity, &models.PkgDBError{
			Type: models.ErrParse,
			Path: doc.Path,
			Err:  fmt.Errorf("failed to decode %T: %w", entity, err),
		}
	}
	return entity, nil
}

// Load reads, gates and decodes every file, recording failures in rep.
// Records that fail parsing or the gate are left out of the result.
// Under a fail-fast report the first failure is returned.
func Load[T any](ctx context.Context, files []scanner.SourceFile, gate Gate, rep *report.Report) ([]*Record[T], error) {
	records := make([]*Record[T], 0, len(files))

	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		doc, err := Read(file.Path)
		if err != nil {
			if abort := fail(rep, file.Path, err); abort != nil {
				return nil, abort
			}
			continue
		}

		if gate != nil {
			violations := gate(doc)
			for _, v := range violations {
				if abort := rep.Error(models.ErrSchema, file.Path, "%s", v); abort != nil {
					return nil, abort
				}
			}
			if len(violations) > 0 {
				logrus.Debugf("Skipping %s: %d schema violation(s)", file.Path, len(violations))
				continue
			}
		}

		entity, err := Decode[T](doc)
		if err != nil {
			if abort := fail(rep, file.Path, err); abort != nil {
				return nil, abort
			}
			continue
		}

		records = append(records, &Record[T]{
			Path:   doc.Path,
			Stem:   doc.Stem,
			Entity: entity,
		})
	}

	return records, nil
}

// invalidUTF8 returns the location of the first key or string value in tree
// that is not valid UTF-8. Such values come from !!binary scalars.
func invalidUTF8(tree any, at string) (string, bool) {
	switch v := tree.(type) {
	case string:
		if !utf8.ValidString(v) {
			return at, true
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !utf8.ValidString(k) {
				return at + "/" + strings.ToValidUTF8(k, "?"), true
			}
			if field, ok := invalidUTF8(v[k], at+"/"+k); ok {
				return field, true
			}
		}
	case map[any]any:
		keys := make([]any, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		for _, k := range keys {
			key := fmt.Sprint(k)
			if field, ok := invalidUTF8(k, at+"/"+key); ok {
				return field, true
			}
			if field, ok := invalidUTF8(v[k], at+"/"+key); ok {
				return field, true
			}
		}
	case []any:
		for i, item := range v {
			if field, ok := invalidUTF8(item, fmt.Sprintf("%s/%d", at, i)); ok {
				return field, true
			}
		}
	}
	return "", false
}

// fail records a load error in rep and returns it when the run must abort
func fail(rep *report.Report, path string, err error) error {
	errType := models.ErrParse
	msg := err.Error()
	var pkgErr *models.PkgDBError
	if errors.As(err, &pkgErr) {
		errType = pkgErr.Type
		msg = pkgErr.Err.Error()
	}
	return rep.Error(errType, path, "%s", msg)
}
