package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_EnsureCreatesEmptyCollection(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewFileBackend(dir)

	require.NoError(t, b.Ensure(ctx, "patients"))
	raw, err := os.ReadFile(filepath.Join(dir, "patients.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))

	// Idempotent: an existing collection is left alone.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patients.json"), []byte(`[{"id":"x"}]`), 0o640))
	require.NoError(t, b.Ensure(ctx, "patients"))
	raw, err = os.ReadFile(filepath.Join(dir, "patients.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"x"}]`, string(raw))
}

func TestFileBackend_PrettyPrintedAndNoTempLeftovers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewCollection[item](NewFileBackend(dir), "doctors")

	require.NoError(t, c.Insert(ctx, item{ID: "d1", Name: "Carla"}))

	raw, err := os.ReadFile(filepath.Join(dir, "doctors.json"))
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": \"d1\",\n    \"name\": \"Carla\"\n  }\n]\n", string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doctors.json", entries[0].Name())
}

func TestFileBackend_ReloadAfterRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewCollection[item](NewFileBackend(dir), "staff")
	require.NoError(t, first.Insert(ctx, item{ID: "s1"}))

	second := NewCollection[item](NewFileBackend(dir), "staff")
	got, err := second.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
}

func TestFileBackend_CorruptFileSurfaces(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "patients.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o640))

	c := NewCollection[item](NewFileBackend(dir), "patients")
	_, err := c.LoadAll(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(raw))
}
