package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mlopsdiagrams/internal/config"
	"github.com/matzehuels/mlopsdiagrams/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			if cfg.Cache.RedisURL != "" {
				rc, err := cache.NewRedisCache(cmd.Context(), cfg.Cache.RedisURL, cfg.Cache.Prefix)
				if err != nil {
					return err
				}
				defer rc.Close()
				n, err := rc.Clear(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear redis cache: %w", err)
				}
				printSuccess("Cleared %d cached renders", n)
				printDetail("Redis prefix: %s", cfg.Cache.Prefix)
				return nil
			}

			dir := cfg.Cache.Dir
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			n, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %d cached renders", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show where renders are cached and how much is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			printCacheInfo(cfg.Cache)
			return nil
		},
	}
}

func printCacheInfo(cc config.Cache) {
	ttl, _ := cc.TTLDuration()
	switch {
	case cc.Disabled:
		printKeyValue("Backend", "disabled")
		return
	case cc.RedisURL != "":
		printKeyValue("Backend", "redis")
		printKeyValue("Prefix", cc.Prefix)
		printKeyValue("TTL", ttl.String())
		return
	}

	printKeyValue("Backend", "file")
	printKeyValue("Directory", cc.Dir)
	printKeyValue("TTL", ttl.String())
	if _, err := os.Stat(cc.Dir); err != nil {
		printKeyValue("Entries", "0")
		return
	}
	fc, err := cache.NewFileCache(cc.Dir)
	if err != nil {
		printWarning("cannot open cache: %v", err)
		return
	}
	entries, size, err := fc.Stats()
	if err != nil {
		printWarning("cannot read cache: %v", err)
		return
	}
	printKeyValue("Entries", fmt.Sprintf("%d", entries))
	printKeyValue("Size", formatBytes(size))
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
