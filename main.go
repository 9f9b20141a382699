package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/minicache/internal/cache"
	"github.com/any-hub/minicache/internal/codec"
	"github.com/any-hub/minicache/internal/config"
	"github.com/any-hub/minicache/internal/logging"
	"github.com/any-hub/minicache/internal/storage"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
)

const configEnv = "MINICACHE_CONFIG"

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// run 执行一次 CLI 调用并返回退出码，方便测试。
func run(ctx context.Context, args []string) int {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdOut)
	root.SetErr(stdErr)

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.err != nil {
				fmt.Fprintln(stdErr, exitErr.err.Error())
			}
			return exitErr.code
		}
		fmt.Fprintln(stdErr, err.Error())
		return exitUsage
	}
	return exitOK
}

// exitError 携带命令处理器希望返回的退出码；其它错误（参数解析等）统一视为用法错误。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func failure(format string, args ...any) error {
	return &exitError{code: exitFailure, err: fmt.Errorf(format, args...)}
}

// resolveConfigPath 计算最终配置路径：--config 优先于 MINICACHE_CONFIG，均未设置时返回空串
// 交由 config.Load 读取默认文件。
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(configEnv)
}

// loadRuntime 加载配置并初始化日志，供所有子命令复用。
func loadRuntime(configPath string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, failure("加载配置失败: %v", err)
	}
	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		return nil, nil, failure("初始化日志失败: %v", err)
	}
	return cfg, logger, nil
}

// openEngine 遵循“配置 → 日志 → 编解码器 → 存储 → 引擎”顺序构造缓存引擎。
func openEngine(configPath string) (*cache.Engine, *logrus.Logger, error) {
	cfg, logger, err := loadRuntime(configPath)
	if err != nil {
		return nil, nil, err
	}

	c, ok := codec.Resolve(cfg.Global.Codec)
	if !ok {
		return nil, nil, failure("未注册的编解码器: %s", cfg.Global.Codec)
	}

	engine, err := cache.New(cacheOptions(cfg.Global), storage.NewFileBackend(), c, logger)
	if err != nil {
		return nil, nil, failure("初始化缓存失败: %v", err)
	}
	return engine, logger, nil
}

func cacheOptions(g config.GlobalConfig) cache.Options {
	return cache.Options{
		Root:            g.StoragePath,
		ShardDepth:      g.ShardDepth,
		Extension:       g.FileExtension,
		DefaultDuration: g.DefaultDuration.DurationValue(),
	}
}
