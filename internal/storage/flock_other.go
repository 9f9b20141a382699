//go:build !unix

package storage

// lockDir 在不支持 flock 的平台上退化为仅依赖 rename 的原子性。
func lockDir(string) (func(), error) {
	return func() {}, nil
}
