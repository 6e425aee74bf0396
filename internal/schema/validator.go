// Package schema validates generic record documents against JSON Schema
// (draft 2020-12) documents. Each schema is compiled once per run and the
// compiled Validator owns it for as long as the Validator is used.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Validator checks documents against one compiled schema
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Load reads and compiles the schema document at path
func Load(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.PkgDBError{
			Type: models.ErrFileOp,
			Path: path,
			Err:  fmt.Errorf("failed to read schema: %w", err),
		}
	}

	v, err := Compile(filepath.Base(path), data)
	if err != nil {
		return nil, &models.PkgDBError{
			Type: models.ErrInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return v, nil
}

// Compile parses and compiles a schema document held in memory
func Compile(name string, data []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	if err := c.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", name, err)
	}

	s, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	return &Validator{name: name, schema: s}, nil
}

// Name returns the file name the schema was loaded from
func (v *Validator) Name() string {
	return v.name
}

// Validate checks a generic document and returns one message per violated
// constraint, sorted. A nil result means the document conforms.
func (v *Validator) Validate(doc any) []string {
	instance, err := toJSONValue(doc)
	if err != nil {
		return []string{fmt.Sprintf("schema %s: document is not representable as JSON: %v", v.name, err)}
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{fmt.Sprintf("schema %s: %v", v.name, err)}
	}

	var messages []string
	for _, leaf := range leaves(verr) {
		messages = append(messages, fmt.Sprintf("schema %s: at '%s': %s",
			v.name, pointer(leaf.InstanceLocation), leaf.ErrorKind.LocalizedString(printer)))
	}
	sort.Strings(messages)
	return messages
}

// leaves returns the errors of the tree rooted at e that have no causes.
// Each one is a single violated keyword.
func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range e.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}

func pointer(location []string) string {
	if len(location) == 0 {
		return "/"
	}
	return "/" + strings.Join(location, "/")
}

// toJSONValue converts a YAML document tree into the value model the
// validator expects (map[string]any, []any, json.Number, string, bool, nil)
func toJSONValue(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
