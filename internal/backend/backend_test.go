package backend

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/moneybox/internal/config"
	"github.com/jask/moneybox/internal/database"
	"github.com/jask/moneybox/internal/logger"
	"github.com/jask/moneybox/internal/persist"
	"github.com/jask/moneybox/internal/prefs"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(config.StorageConfig{Backend: "file", Dir: "/x"})
	require.NoError(t, err)
	require.Equal(t, Config{Type: FileBackend, DataDirectory: "/x"}, cfg)

	_, err = FromAppConfig(config.StorageConfig{Backend: "sheets"})
	require.Error(t, err)
}

func TestOpenEachBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
		want any
	}{
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "m.db")}, &database.KVStore{}},
		{"file", Config{Type: FileBackend, DataDirectory: filepath.Join(dir, "files")}, &prefs.FileStore{}},
		{"memory", Config{Type: MemoryBackend}, &persist.Memory{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			require.NoError(t, err)
			defer s.Close()
			require.IsType(t, tt.want, s)

			require.NoError(t, s.Save(ctx, persist.FinanceKey, []byte(`{}`)))
			got, err := s.Load(ctx, persist.FinanceKey)
			require.NoError(t, err)
			require.Equal(t, `{}`, string(got))
		})
	}
}

func TestOpenRejectsIncompleteConfig(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: SQLiteBackend})
	require.Error(t, err)
	_, err = Open(context.Background(), Config{Type: "sheets"})
	require.Error(t, err)
}

func TestOpenLogsThroughContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(buf))

	s, err := Open(ctx, Config{Type: MemoryBackend})
	require.NoError(t, err)
	defer s.Close()
	require.Contains(t, buf.String(), "initialized memory backend")
}
