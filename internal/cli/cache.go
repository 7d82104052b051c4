package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/argmap/pkg/cache"
	"github.com/matzehuels/argmap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the neighborhood and layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand empties whichever backend the config selects.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached neighborhoods, summaries and layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := c.cfg.Cache.Backend
			if backend == config.CacheNone {
				printInfo("Caching is disabled")
				return nil
			}
			ch, err := c.openCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer ch.Close()

			cl, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", backend)
			}
			n, err := cl.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear %s cache: %w", backend, err)
			}
			printSuccess("Cleared %d cached entries", n)
			switch ch := ch.(type) {
			case *cache.RedisCache:
				printDetail("Redis: %s (prefix %q)", c.cfg.Cache.RedisURL, c.cfg.Cache.Prefix)
			case *cache.FileCache:
				printDetail("Directory: %s", ch.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// fileCacheDir returns the configured directory, or the default one.
func (c *CLI) fileCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}
