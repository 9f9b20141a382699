package cache

import (
	"errors"
	"fmt"
)

// ErrNotFound 表示条目不存在或无法解码，两种情况对调用方不可区分。
var ErrNotFound = errors.New("cache entry not found")

// WriteError 描述 Set 过程中编码、建目录或写盘失败。
type WriteError struct {
	Op   string
	Key  string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("cache %s %s (%s): %v", e.Op, e.Key, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// DecodeError 表示磁盘上的字节无法还原为合法信封。
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decode envelope: %v", e.Err)
	}
	return fmt.Sprintf("decode envelope %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConfigError 在构造 Engine 时报告非法配置。
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cache option %s: %s", e.Field, e.Reason)
}

// notFound 将底层原因包装进 ErrNotFound，errors.Is 仍能识别两者。
func notFound(cause error) error {
	if cause == nil || errors.Is(cause, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrNotFound, cause)
}
