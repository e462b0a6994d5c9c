package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xts/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the xts token cache",
	Long:  "Remove every entry of the on-disk token cache (--cache-dir, [cache].dir or $XDG_CACHE_HOME/xts).",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().String("cache-dir", "", "token cache directory")
}

func runClean(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd, ".")
	if err != nil {
		return err
	}
	dir := s.CacheDir
	if dir == "" {
		if dir, err = driver.DefaultCacheDir("xts"); err != nil {
			return err
		}
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "token cache not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}
	cache, err := driver.OpenTokenCache(dir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean %q: %w", dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed token cache in %s\n", cache.Dir())
	return nil
}
