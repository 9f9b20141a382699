package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/minicache/internal/codec"
)

// maxShardDepth 与缓存键长度（32 个十六进制字符）一致。
const maxShardDepth = 32

// Validate 针对语义级别做进一步校验，防止非法配置构造缓存引擎。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError(globalField("LogLevel"), fmt.Sprintf("无法识别的日志级别 %q", g.LogLevel))
	}
	if g.LogMaxSize < 0 {
		return newFieldError(globalField("LogMaxSize"), "不能为负数")
	}
	if g.LogMaxBackups < 0 {
		return newFieldError(globalField("LogMaxBackups"), "不能为负数")
	}
	if strings.TrimSpace(g.StoragePath) == "" {
		return newFieldError(globalField("StoragePath"), "不能为空")
	}
	if g.ShardDepth < 0 || g.ShardDepth > maxShardDepth {
		return newFieldError(globalField("ShardDepth"), fmt.Sprintf("必须在 0-%d", maxShardDepth))
	}
	if err := validateExtension(g.FileExtension); err != nil {
		return fmt.Errorf("%s: %w", globalField("FileExtension"), err)
	}
	if _, ok := codec.Resolve(g.Codec); !ok {
		return newFieldError(globalField("Codec"), "仅支持 "+strings.Join(codec.Names(), "|"))
	}
	return nil
}

func validateExtension(ext string) error {
	if ext == "" {
		return nil
	}
	if !strings.HasPrefix(ext, ".") || ext == "." {
		return errors.New("扩展名必须以 . 开头并包含后缀")
	}
	if strings.ContainsAny(ext, `/\ `) {
		return errors.New("扩展名不允许包含路径分隔符或空格")
	}
	return nil
}
