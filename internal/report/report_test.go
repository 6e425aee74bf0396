package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/heimdal-dev/pkgdb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectAllKeepsGoing(t *testing.T) {
	r := New(CollectAll)

	assert.NoError(t, r.Error(models.ErrStructural, "a.yaml", "first %d", 1))
	assert.NoError(t, r.Error(models.ErrSchema, "b.yaml", "second"))
	r.Warn("c.yaml", "advisory")

	assert.True(t, r.HasErrors())
	assert.Len(t, r.Errors, 2)
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, []string{
		"warning: c.yaml: advisory",
		"error: a.yaml: first 1",
		"error: b.yaml: second",
	}, r.Lines())
}

func TestFailFastReturnsTypedError(t *testing.T) {
	r := New(FailFast)

	err := r.Error(models.ErrStructural, "a.yaml", "boom")
	require.Error(t, err)

	var pkgErr *models.PkgDBError
	require.True(t, errors.As(err, &pkgErr))
	assert.Equal(t, models.ErrStructural, pkgErr.Type)
	assert.Equal(t, "a.yaml", pkgErr.Path)
	assert.Contains(t, err.Error(), "boom")
}

func TestWarningsDoNotFail(t *testing.T) {
	r := New(FailFast)
	r.Warn("", "only a warning")

	assert.False(t, r.HasErrors())
	assert.NoError(t, r.Err())
}

func TestWriteTo(t *testing.T) {
	a := New(CollectAll)
	_ = a.Error(models.ErrParse, "y.yaml", "e1")
	a.Warn("x.yaml", "w1")
	require.Error(t, a.Err())

	var buf bytes.Buffer
	_, err := a.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "warning: x.yaml: w1\nerror: y.yaml: e1\n", buf.String())
}
