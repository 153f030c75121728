package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cfa/internal/project"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk result cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove every cached result",
		Long:  "Remove the result cache configured by cfa.toml found from dir (default: current directory).",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCacheClean,
	})
	return cacheCmd
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	baseDir := "."
	if len(args) > 0 && args[0] != "" {
		baseDir = args[0]
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", baseDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", baseDir)
	}
	manifest, _, err := project.LoadManifest(baseDir)
	if err != nil {
		return err
	}
	s := &settings{cacheDir: manifest.Config.Cache.Dir}
	cache, err := openCache(s)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	return nil
}
