package cache

import (
	"errors"
	"fmt"

	"github.com/any-hub/minicache/internal/codec"
)

// envelopeVersion 为当前写入的记录格式版本；0 代表早期无版本号的记录。
const envelopeVersion = 1

// Meta 是随数据一起持久化的元信息。Age 不在其中，始终按 mtime 现算。
type Meta struct {
	Duration int64  `json:"duration" yaml:"duration"`
	ID       string `json:"id" yaml:"id"`
	Key      string `json:"key" yaml:"key"`
}

// Info 是对外返回的元信息视图：持久化字段加上实时计算的 Age（秒）。
type Info struct {
	Meta `yaml:",inline"`
	Age  int64 `json:"age" yaml:"age"`
}

// Envelope 是单个缓存文件的完整内容。
type Envelope struct {
	Version int  `json:"version" yaml:"version"`
	Data    any  `json:"data" yaml:"data"`
	Info    Meta `json:"info" yaml:"info"`
}

func encodeEnvelope(c codec.Codec, env Envelope) ([]byte, error) {
	if env.Version == 0 {
		env.Version = envelopeVersion
	}
	return c.Marshal(env)
}

// decodeEnvelope 在格式错误、版本未知或缺少 info.key 时返回 *DecodeError，
// 从不返回半解析的信封。
func decodeEnvelope(c codec.Codec, raw []byte, path string) (Envelope, error) {
	var env Envelope
	if err := c.Unmarshal(raw, &env); err != nil {
		return Envelope{}, &DecodeError{Path: path, Err: err}
	}
	if env.Version < 0 || env.Version > envelopeVersion {
		return Envelope{}, &DecodeError{Path: path, Err: fmt.Errorf("unsupported envelope version %d", env.Version)}
	}
	if env.Info.Key == "" {
		return Envelope{}, &DecodeError{Path: path, Err: errors.New("envelope missing info.key")}
	}
	return env, nil
}
