package cache

import (
	"crypto/md5"
	"encoding/hex"
)

// KeyLength 是 CacheKey 的固定长度（128 位摘要的十六进制表示）。
const KeyLength = md5.Size * 2

// CacheKey 将任意标识符映射为固定长度、可直接用作文件名的小写十六进制键。
// 同一标识符在任何进程中都得到相同的键。
func CacheKey(identifier string) string {
	sum := md5.Sum([]byte(identifier))
	return hex.EncodeToString(sum[:])
}

func isCacheKey(s string) bool {
	if len(s) != KeyLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
