package codec

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var globalRegistry = newRegistry()

type registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

func newRegistry() *registry {
	return &registry{codecs: make(map[string]Codec)}
}

// Register 将编解码器加入全局注册表，重复名称会返回错误。
func Register(c Codec) error {
	return globalRegistry.register(c)
}

// MustRegister 在注册失败时 panic，适合 init() 中调用。
func MustRegister(c Codec) {
	if err := Register(c); err != nil {
		panic(err)
	}
}

// Resolve 按名称（大小写不敏感）查找编解码器。
func Resolve(name string) (Codec, bool) {
	return globalRegistry.resolve(name)
}

// Names 返回所有已注册编解码器名称，按字典序排列，供配置校验与诊断使用。
func Names() []string {
	return globalRegistry.names()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *registry) register(c Codec) error {
	if c == nil {
		return fmt.Errorf("codec is required")
	}
	name := normalizeName(c.Name())
	if name == "" {
		return fmt.Errorf("codec name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.codecs[name]; exists {
		return fmt.Errorf("codec %s already registered", name)
	}
	r.codecs[name] = c
	return nil
}

func (r *registry) resolve(name string) (Codec, bool) {
	normalized := normalizeName(name)
	if normalized == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.codecs[normalized]
	return c, ok
}

func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.codecs) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
