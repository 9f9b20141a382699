package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/any-hub/minicache/internal/cache"
	"github.com/any-hub/minicache/internal/codec"
	"github.com/any-hub/minicache/internal/config"
	"github.com/any-hub/minicache/internal/logging"
	"github.com/any-hub/minicache/internal/version"
)

// cliState 保存根命令解析出的持久化标志，供子命令读取。
type cliState struct {
	configFlag string
}

func (s *cliState) configPath() string {
	return resolveConfigPath(s.configFlag)
}

// newRootCommand 每次调用都构建一棵新的命令树，避免测试之间共享标志状态。
func newRootCommand() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "minicache",
		Short:         "File-backed key/value cache",
		Long:          "minicache stores values on disk under hashed, sharded paths and expires them by age.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&state.configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 "+configEnv+" 覆盖）")

	root.AddCommand(
		newSetCommand(state),
		newGetCommand(state),
		newInfoCommand(state),
		newDeleteCommand(state),
		newListCommand(state),
		newSweepCommand(state),
		newClearCommand(state),
		newKeyCommand(),
		newCheckConfigCommand(state),
		newVersionCommand(),
	)
	return root
}

func newSetCommand(state *cliState) *cobra.Command {
	var (
		ttlFlag string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "set <id> <value>",
		Short: "Store a value under an identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any = args[1]
			if asJSON {
				if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
					return &exitError{code: exitUsage, err: fmt.Errorf("value is not valid JSON: %w", err)}
				}
			}

			engine, _, err := openEngine(state.configPath())
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("ttl") {
				var ttl config.Duration
				if err := ttl.UnmarshalText([]byte(ttlFlag)); err != nil {
					return &exitError{code: exitUsage, err: err}
				}
				err = engine.SetFor(cmd.Context(), args[0], value, ttl.DurationValue())
			} else {
				err = engine.Set(cmd.Context(), args[0], value)
			}
			if err != nil {
				return failure("写入缓存失败: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), engine.CacheKey(args[0]))
			return nil
		},
	}
	cmd.Flags().StringVar(&ttlFlag, "ttl", "", "有效期，例如 30s、5m、120（秒）或 -1（永不过期）")
	cmd.Flags().BoolVar(&asJSON, "json", false, "将 value 解析为 JSON")
	return cmd
}

func newGetCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the cached value as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(state.configPath())
			if err != nil {
				return err
			}
			value, err := engine.Get(cmd.Context(), args[0])
			if err != nil {
				return lookupError(args[0], err)
			}
			return writeJSON(cmd, value)
		},
	}
}

// infoView 在元信息之外附带过期判定与文件路径，便于排查。
type infoView struct {
	cache.Info
	Expired bool   `json:"expired"`
	Path    string `json:"path"`
}

func newInfoCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "info <id>",
		Short: "Print entry metadata (duration, id, key, age)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(state.configPath())
			if err != nil {
				return err
			}
			info, err := engine.GetInfo(cmd.Context(), args[0])
			if err != nil {
				return lookupError(args[0], err)
			}
			return writeJSON(cmd, infoView{Info: info, Expired: info.Expired(), Path: engine.Path(args[0])})
		},
	}
}

func newDeleteCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(state.configPath())
			if err != nil {
				return err
			}
			removed, err := engine.Delete(cmd.Context(), args[0])
			if err != nil {
				return failure("删除缓存失败: %v", err)
			}
			if removed {
				fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not found")
			}
			return nil
		},
	}
}

func newListCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List entry metadata, one JSON object per line, sorted by key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(state.configPath())
			if err != nil {
				return err
			}
			infos, err := engine.ListAll(cmd.Context())
			if err != nil {
				return failure("列举缓存失败: %v", err)
			}
			for _, info := range infos {
				if err := writeJSON(cmd, info); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSweepCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(state.configPath())
			if err != nil {
				return err
			}
			deleted, err := engine.DeleteExpired(cmd.Context())
			if err != nil {
				return failure("清理过期缓存失败: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired entries\n", deleted)
			return nil
		},
	}
}

func newClearCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := openEngine(state.configPath())
			if err != nil {
				return err
			}
			deleted, err := engine.DeleteAll(cmd.Context())
			if err != nil {
				return failure("清空缓存失败: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", deleted)
			return nil
		},
	}
}

func newKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "key <id>",
		Short: "Print the cache key derived from an identifier",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cache.CacheKey(args[0]))
		},
	}
}

func newCheckConfigCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := state.configPath()
			cfg, logger, err := loadRuntime(path)
			if err != nil {
				return err
			}
			fields := logging.BaseFields("check_config", path)
			fields["storage_path"] = cfg.Global.StoragePath
			fields["shard_depth"] = cfg.Global.ShardDepth
			fields["codec"] = cfg.Global.Codec
			fields["codecs"] = codec.Names()
			fields["version"] = version.Short()
			fields["result"] = "ok"
			logger.WithFields(fields).Info("配置校验通过")
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func lookupError(id string, err error) error {
	if errors.Is(err, cache.ErrNotFound) {
		return &exitError{code: exitNotFound, err: fmt.Errorf("%s: not found", id)}
	}
	return failure("读取缓存失败: %v", err)
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return failure("输出 JSON 失败: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
