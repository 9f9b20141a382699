package cache

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/minicache/internal/storage"
)

// Entries 以深度优先方式惰性遍历根目录下的所有条目，调用方可随时停止。
// 同一目录内按名称顺序访问，因此在统一分片深度下产出顺序即键的升序。
// 遍历中消失的目录或文件会被跳过；位置与当前分片深度不符的文件不计入。
// 遍历加载的条目随即从 memo 中移除。
func (e *Engine) Entries(ctx context.Context) iter.Seq2[Info, error] {
	return e.entriesFrom(ctx, e.opts.Root)
}

func (e *Engine) entriesFrom(ctx context.Context, start string) iter.Seq2[Info, error] {
	return func(yield func(Info, error) bool) {
		e.walk(ctx, start, yield)
	}
}

// ListAll 返回根目录下全部条目的元信息（不含数据），按 Key 升序排列。
// 根目录为空或不存在时返回空结果。
func (e *Engine) ListAll(ctx context.Context) ([]Info, error) {
	return e.ListFrom(ctx, e.opts.Root)
}

// ListFrom 与 ListAll 相同，但从 start 目录开始遍历。
func (e *Engine) ListFrom(ctx context.Context, start string) ([]Info, error) {
	if abs, err := filepath.Abs(start); err == nil {
		start = abs
	}
	result := make([]Info, 0)
	for info, err := range e.entriesFrom(ctx, start) {
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result, nil
}

// DeleteAll 删除全部条目，返回实际删除的文件数。
func (e *Engine) DeleteAll(ctx context.Context) (int, error) {
	return e.sweep(ctx, "delete_all", func(Info) bool { return true })
}

// DeleteExpired 删除年龄超过有效期的条目，返回实际删除的文件数。
// 判定使用列举时计算出的 Age，删除前不再重新读取。
func (e *Engine) DeleteExpired(ctx context.Context) (int, error) {
	return e.sweep(ctx, "delete_expired", Info.Expired)
}

func (e *Engine) sweep(ctx context.Context, action string, match func(Info) bool) (int, error) {
	infos, err := e.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, info := range infos {
		if !match(info) {
			continue
		}
		removed, err := e.Delete(ctx, info.ID)
		if err != nil {
			return deleted, err
		}
		if removed {
			deleted++
		}
	}

	e.logger.WithFields(e.fields(action)).WithFields(logrus.Fields{
		"scanned": len(infos),
		"deleted": deleted,
	}).Info("cache sweep finished")
	return deleted, nil
}

// walk 返回 false 表示消费者已停止遍历。
func (e *Engine) walk(ctx context.Context, dir string, yield func(Info, error) bool) bool {
	if err := ctx.Err(); err != nil {
		yield(Info{}, err)
		return false
	}

	entries, err := e.backend.ListDir(ctx, dir)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return true
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			yield(Info{}, ctxErr)
			return false
		}
		return yield(Info{}, fmt.Errorf("list cache dir %s: %w", dir, err))
	}

	for _, entry := range entries {
		name := entry.Name()
		// 跳过 . / .. 以及临时文件等点号开头的内部条目。
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)

		if entry.IsDir() {
			if !e.walk(ctx, full, yield) {
				return false
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		key, ok := e.keyFromName(name)
		if !ok {
			continue
		}
		// 只报告按当前分片深度可寻址的文件，否则 Get/Delete 都无法触达它。
		if full != e.entryPath(key) {
			continue
		}
		info, ok, err := e.inspect(ctx, key, full)
		if err != nil {
			if !yield(Info{}, err) {
				return false
			}
			continue
		}
		if !ok {
			continue
		}
		if !yield(info, nil) {
			return false
		}
	}
	return true
}

// inspect 加载单个文件的元信息，不存在或无法解码时返回 ok=false。
func (e *Engine) inspect(ctx context.Context, key, path string) (Info, bool, error) {
	env, err := e.load(ctx, key, path)
	// 列举不应让长期存活的 memo 积累调用方未必再访问的条目。
	e.memo.remove(key)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Info{}, false, ctxErr
		}
		return Info{}, false, nil
	}

	mtime, err := e.backend.ModTime(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Info{}, false, nil
		}
		return Info{}, false, fmt.Errorf("stat cache entry %s: %w", path, err)
	}
	return Info{Meta: env.Info, Age: ageSeconds(e.now(), mtime)}, true, nil
}

func (e *Engine) keyFromName(name string) (string, bool) {
	if e.opts.Extension != "" {
		if !strings.HasSuffix(name, e.opts.Extension) {
			return "", false
		}
		name = strings.TrimSuffix(name, e.opts.Extension)
	}
	if !isCacheKey(name) {
		return "", false
	}
	return name, true
}
