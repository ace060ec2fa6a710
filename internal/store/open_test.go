package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/clinicdesk/pkg/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		driver string
		want   any
	}{
		{config.DriverFile, &FileBackend{}},
		{config.DriverMemory, &MemoryBackend{}},
		{config.DriverSQLite, &SQLiteBackend{}},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := &config.Config{Storage: config.StorageConfig{
				Driver:     tt.driver,
				DataDir:    dir,
				SQLitePath: filepath.Join(dir, "clinicdesk.db"),
			}}
			backend, closer, err := Open(ctx, cfg)
			require.NoError(t, err)
			require.NotNil(t, closer)
			t.Cleanup(func() { closer.Close() })
			assert.IsType(t, tt.want, backend)
		})
	}

	_, _, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: "mongo"}})
	assert.Error(t, err)
}
