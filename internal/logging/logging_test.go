package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/leofalp/jsonmend/internal/config"
)

func TestWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotated.log")
	cfg := config.Default()
	cfg.Log.Output = " stdout , stderr,," + path

	writers, closers := Writers(cfg)
	require.Len(t, writers, 3)
	assert.Equal(t, os.Stdout, writers[0])
	assert.Equal(t, os.Stderr, writers[1])

	rotated, ok := writers[2].(*lumberjack.Logger)
	require.True(t, ok)
	assert.Equal(t, path, rotated.Filename)
	assert.Equal(t, cfg.Log.Rotation.MaxSize, rotated.MaxSize)
	assert.Len(t, closers, 1)
}

func TestWriters_EmptyFallsBackToStderr(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Output = " , "

	writers, closers := Writers(cfg)
	require.Len(t, writers, 1)
	assert.Equal(t, os.Stderr, writers[0])
	assert.Empty(t, closers)
}

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsonmend.log")
	cfg := config.Default()
	cfg.Log.Output = path
	cfg.Log.Format = "json"
	cfg.Log.Level = "debug"

	observer, closeFn := Setup(cfg)
	observer.Debug(context.Background(), "file output works")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"file output works"`)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
}
