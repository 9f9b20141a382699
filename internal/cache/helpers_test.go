package cache

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/any-hub/minicache/internal/codec"
	"github.com/any-hub/minicache/internal/storage"
)

func newTestEngine(t *testing.T, mutate func(*Options)) *Engine {
	t.Helper()
	opts := Options{
		Root:            t.TempDir(),
		ShardDepth:      2,
		Extension:       ".cache",
		DefaultDuration: time.Hour,
	}
	if mutate != nil {
		mutate(&opts)
	}
	engine, err := New(opts, nil, nil, nil)
	require.NoError(t, err)
	return engine
}

func newCodecEngine(t *testing.T, name string) *Engine {
	t.Helper()
	c, ok := codec.Resolve(name)
	require.True(t, ok, "codec %s not registered", name)
	engine, err := New(Options{Root: t.TempDir(), ShardDepth: 1, Extension: ".cache"}, nil, c, nil)
	require.NoError(t, err)
	return engine
}

// shiftClock 让引擎认为当前时间比真实时间晚 d。
func shiftClock(e *Engine, d time.Duration) {
	e.now = func() time.Time { return time.Now().Add(d) }
}

var errInjected = errors.New("injected failure")

// failingBackend 在指定原语上返回错误，其余调用透传到真实文件系统。
type failingBackend struct {
	storage.Backend
	failWrite bool
	failMkdir bool
}

func (b *failingBackend) WriteExclusive(ctx context.Context, path string, data []byte, perm fs.FileMode) error {
	if b.failWrite {
		return errInjected
	}
	return b.Backend.WriteExclusive(ctx, path, data, perm)
}

func (b *failingBackend) MakeDirs(ctx context.Context, path string) error {
	if b.failMkdir {
		return errInjected
	}
	return b.Backend.MakeDirs(ctx, path)
}
