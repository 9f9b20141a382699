package cache

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MaxShardDepth 等于键长度：每个字符至多贡献一层目录。
const MaxShardDepth = KeyLength

// Options 是 Engine 的静态配置，构造后不再变化。
type Options struct {
	// Root 为缓存根目录，不存在时会被创建。
	Root string
	// ShardDepth 取键的前 N 个字符作为 N 层子目录，0 表示不分片。
	ShardDepth int
	// Extension 为缓存文件扩展名，需包含前导点，可为空。
	Extension string
	// DefaultDuration 为 Set 未指定时长时使用的有效期，负数表示永不过期。
	DefaultDuration time.Duration
}

func (o Options) normalize() (Options, error) {
	if strings.TrimSpace(o.Root) == "" {
		return o, &ConfigError{Field: "Root", Reason: "must not be empty"}
	}
	abs, err := filepath.Abs(o.Root)
	if err != nil {
		return o, &ConfigError{Field: "Root", Reason: err.Error()}
	}
	o.Root = abs

	if o.ShardDepth < 0 || o.ShardDepth > MaxShardDepth {
		return o, &ConfigError{Field: "ShardDepth", Reason: fmt.Sprintf("must be within 0-%d", MaxShardDepth)}
	}
	if o.Extension != "" {
		if !strings.HasPrefix(o.Extension, ".") || o.Extension == "." {
			return o, &ConfigError{Field: "Extension", Reason: "must start with '.' followed by a suffix"}
		}
		if strings.ContainsAny(o.Extension, `/\`) {
			return o, &ConfigError{Field: "Extension", Reason: "must not contain path separators"}
		}
	}
	return o, nil
}
