// Package report accumulates validation errors and warnings for a single run.
//
// A Report is passed by reference to every check. Its Policy decides what
// happens when a hard error is added: under CollectAll the error is recorded
// and the check continues, under FailFast the error is recorded and returned
// so the caller can abort immediately.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/heimdal-dev/pkgdb/internal/models"
)

// Policy selects how hard errors propagate
type Policy int

const (
	CollectAll Policy = iota
	FailFast
)

// String returns the string representation of Policy
func (p Policy) String() string {
	switch p {
	case CollectAll:
		return "collect-all"
	case FailFast:
		return "fail-fast"
	default:
		return "unknown"
	}
}

// Issue is a single error or warning
type Issue struct {
	Type    models.ErrorType
	Path    string
	Message string
}

// String formats the issue with its source path when known
func (i Issue) String() string {
	if i.Path != "" {
		return fmt.Sprintf("%s: %s", i.Path, i.Message)
	}
	return i.Message
}

// Report collects issues found during a run
type Report struct {
	Policy   Policy
	Errors   []Issue
	Warnings []Issue
}

// New creates an empty report with the given policy
func New(policy Policy) *Report {
	return &Report{Policy: policy}
}

// Error records a hard error. Under FailFast the error is also returned.
func (r *Report) Error(errType models.ErrorType, path, format string, args ...any) error {
	issue := Issue{
		Type:    errType,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
	r.Errors = append(r.Errors, issue)

	if r.Policy == FailFast {
		return &models.PkgDBError{
			Type: errType,
			Path: path,
			Err:  errors.New(issue.Message),
		}
	}
	return nil
}

// Warn records a warning
func (r *Report) Warn(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{
		Type:    models.ErrStructural,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any hard error was recorded
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns nil when no hard error was recorded
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return &models.PkgDBError{
		Type: r.Errors[0].Type,
		Err:  fmt.Errorf("validation failed with %d error(s) and %d warning(s)", len(r.Errors), len(r.Warnings)),
	}
}

// Lines renders the report, warnings first
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Warnings)+len(r.Errors))
	for _, w := range r.Warnings {
		lines = append(lines, "warning: "+w.String())
	}
	for _, e := range r.Errors {
		lines = append(lines, "error: "+e.String())
	}
	return lines
}

// WriteTo writes the rendered report to w, one issue per line
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range r.Lines() {
		n, err := fmt.Fprintln(w, line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
