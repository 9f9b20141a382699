package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/minicache/internal/codec"
	"github.com/any-hub/minicache/internal/logging"
	"github.com/any-hub/minicache/internal/storage"
)

// filePerm 让缓存文件对共享同一目录的其它进程/用户可读写。
const filePerm fs.FileMode = 0o666

// Engine 是缓存的唯一入口。构造一次后按引用传递；并发安全。
type Engine struct {
	opts    Options
	backend storage.Backend
	codec   codec.Codec
	logger  *logrus.Logger

	memo     *memo
	locks    *keyLocks
	now      func() time.Time
	instance string
}

// New 校验配置、确保根目录存在并构造 Engine。backend/c/logger 为 nil 时分别
// 使用本地文件系统、JSON 编解码器以及丢弃输出的 logger。
func New(opts Options, backend storage.Backend, c codec.Codec, logger *logrus.Logger) (*Engine, error) {
	normalized, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	if backend == nil {
		backend = storage.NewFileBackend()
	}
	if c == nil {
		c = codec.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	if err := backend.MakeDirs(context.Background(), normalized.Root); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}

	e := newEngine(normalized, backend, c, logger)
	e.logger.WithFields(e.fields("engine_init")).WithFields(logrus.Fields{
		"root":        normalized.Root,
		"shard_depth": normalized.ShardDepth,
		"codec":       c.Name(),
	}).Debug("cache engine ready")
	return e, nil
}

func newEngine(opts Options, backend storage.Backend, c codec.Codec, logger *logrus.Logger) *Engine {
	return &Engine{
		opts:     opts,
		backend:  backend,
		codec:    c,
		logger:   logger,
		memo:     newMemo(),
		locks:    newKeyLocks(),
		now:      time.Now,
		instance: uuid.NewString(),
	}
}

// Reset 清空当前实例的 memo，并返回一个共享同一配置/存储/编解码器的全新实例。
// 旧实例仍可使用，但不再持有任何已加载条目。
func (e *Engine) Reset() *Engine {
	dropped := e.memo.len()
	e.memo.clear()

	fresh := newEngine(e.opts, e.backend, e.codec, e.logger)
	fresh.now = e.now
	e.logger.WithFields(e.fields("reset")).WithFields(logrus.Fields{
		"dropped":      dropped,
		"new_instance": fresh.instance,
	}).Debug("cache engine reset")
	return fresh
}

// InstanceID 返回当前实例的唯一标识，出现在所有日志行的 instance 字段中。
func (e *Engine) InstanceID() string {
	return e.instance
}

// Options 返回规范化后的配置（Root 为绝对路径）。
func (e *Engine) Options() Options {
	return e.opts
}

// Codec 返回 Engine 使用的编解码器。
func (e *Engine) Codec() codec.Codec {
	return e.codec
}

// CacheKey 暴露键推导，便于调用方预测存储位置。
func (e *Engine) CacheKey(identifier string) string {
	return CacheKey(identifier)
}

// Path 返回标识符对应的缓存文件路径（不创建目录）。
func (e *Engine) Path(identifier string) string {
	return e.entryPath(CacheKey(identifier))
}

// Set 以默认有效期写入条目。
func (e *Engine) Set(ctx context.Context, identifier string, value any) error {
	return e.set(ctx, identifier, value, durationSeconds(e.opts.DefaultDuration))
}

// SetFor 以指定有效期写入条目：按整秒截断，负值表示永不过期，0 表示立即过期。
func (e *Engine) SetFor(ctx context.Context, identifier string, value any, ttl time.Duration) error {
	return e.set(ctx, identifier, value, durationSeconds(ttl))
}

func (e *Engine) set(ctx context.Context, identifier string, value any, duration int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := CacheKey(identifier)
	env := Envelope{
		Version: envelopeVersion,
		Data:    value,
		Info: Meta{
			Duration: duration,
			ID:       identifier,
			Key:      key,
		},
	}

	raw, err := encodeEnvelope(e.codec, env)
	if err != nil {
		return &WriteError{Op: "encode", Key: key, Err: err}
	}
	// memo 保存解码后的副本，使进程内读取与冷启动读盘得到同样形态的数据。
	stored, err := decodeEnvelope(e.codec, raw, "")
	if err != nil {
		return &WriteError{Op: "encode", Key: key, Err: err}
	}

	unlock := e.locks.lock(key)
	defer unlock()

	path, err := resolvePath(ctx, e.backend, key, e.opts.Root, e.opts.ShardDepth, e.opts.Extension)
	if err != nil {
		return &WriteError{Op: "mkdir", Key: key, Err: err}
	}
	if err := e.backend.WriteExclusive(ctx, path, raw, filePerm); err != nil {
		e.logger.WithFields(e.entryFields("set", identifier, key)).WithError(err).Warn("cache write failed")
		return &WriteError{Op: "write", Key: key, Path: path, Err: err}
	}
	e.memo.store(key, stored)

	e.logger.WithFields(e.entryFields("set", identifier, key)).WithFields(logrus.Fields{
		"duration": duration,
		"bytes":    len(raw),
	}).Debug("cache entry written")
	return nil
}

// Get 返回条目数据。不检查是否过期：过期但尚未清理的条目照常返回。
// 条目不存在或无法解码时返回的错误满足 errors.Is(err, ErrNotFound)。
func (e *Engine) Get(ctx context.Context, identifier string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := CacheKey(identifier)
	env, err := e.load(ctx, key, e.entryPath(key))
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Load 与 Get 相同，但通过编解码器把数据转换进 target（必须为指针）。
func (e *Engine) Load(ctx context.Context, identifier string, target any) error {
	data, err := e.Get(ctx, identifier)
	if err != nil {
		return err
	}
	if err := codec.Convert(e.codec, data, target); err != nil {
		return fmt.Errorf("convert cached value %s: %w", CacheKey(identifier), err)
	}
	return nil
}

// GetInfo 返回条目元信息，Age 按文件 mtime 实时计算且不会写回。
func (e *Engine) GetInfo(ctx context.Context, identifier string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	key := CacheKey(identifier)
	path := e.entryPath(key)
	env, err := e.load(ctx, key, path)
	if err != nil {
		return Info{}, err
	}
	mtime, err := e.backend.ModTime(ctx, path)
	if err != nil {
		return Info{}, notFound(err)
	}
	return Info{Meta: env.Info, Age: ageSeconds(e.now(), mtime)}, nil
}

// Delete 移除 memo 与磁盘上的条目，返回是否真的删除了文件。重复删除返回 false。
func (e *Engine) Delete(ctx context.Context, identifier string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := CacheKey(identifier)

	unlock := e.locks.lock(key)
	defer unlock()

	e.memo.remove(key)
	removed, err := e.backend.Delete(ctx, e.entryPath(key))
	if err != nil {
		return false, fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	if removed {
		e.logger.WithFields(e.entryFields("delete", identifier, key)).Debug("cache entry deleted")
	}
	return removed, nil
}

// load 是所有读取操作共享的路径：memo 命中直接返回；否则读盘、解码并回填 memo。
func (e *Engine) load(ctx context.Context, key, path string) (Envelope, error) {
	unlock := e.locks.lock(key)
	defer unlock()

	if env, ok := e.memo.lookup(key); ok {
		return env, nil
	}

	if !e.backend.Exists(ctx, path) {
		return Envelope{}, ErrNotFound
	}
	raw, err := e.backend.ReadBytes(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Envelope{}, ErrNotFound
		}
		return Envelope{}, notFound(err)
	}

	env, err := decodeEnvelope(e.codec, raw, path)
	if err == nil && env.Info.Key != key {
		err = &DecodeError{Path: path, Err: fmt.Errorf("stored key %q does not match file", env.Info.Key)}
	}
	// Delete 按 id 重新推导路径，id 与文件不符时会误删其它条目。
	if err == nil && CacheKey(env.Info.ID) != key {
		err = &DecodeError{Path: path, Err: fmt.Errorf("stored id %q does not hash to file key", env.Info.ID)}
	}
	if err != nil {
		e.logger.WithFields(e.fields("load")).WithFields(logrus.Fields{
			"key":  key,
			"path": path,
		}).WithError(err).Warn("skip undecodable cache entry")
		return Envelope{}, notFound(err)
	}

	e.memo.store(key, env)
	return env, nil
}

func (e *Engine) entryPath(key string) string {
	return entryPath(key, e.opts.Root, e.opts.ShardDepth, e.opts.Extension)
}

func (e *Engine) fields(action string) logrus.Fields {
	fields := logging.CacheFields(action, e.opts.Root)
	fields["instance"] = e.instance
	return fields
}

func (e *Engine) entryFields(action, identifier, key string) logrus.Fields {
	fields := e.fields(action)
	for k, v := range logging.EntryFields(identifier, key) {
		fields[k] = v
	}
	return fields
}
