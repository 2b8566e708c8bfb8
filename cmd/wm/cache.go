package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/steveyegge/waymark/internal/cache"
	"github.com/steveyegge/waymark/internal/config"
	"github.com/steveyegge/waymark/internal/store"
	"github.com/steveyegge/waymark/internal/ui"
)

var cacheCmd = &cobra.Command{
	Use:     "cache",
	GroupID: "advanced",
	Short:   "Manage the SQLite query cache",
	Long: `The cache mirrors the waypoint collection into a local SQLite
database for fast queries. The JSON collections stay the source of
truth; the cache can always be rebuilt with 'wm cache sync'.`,
}

var cacheSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild the cache from the waypoint collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, db, storage, cfg, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		logger := log.New(debugWriter(root, cfg), "[cache] ", log.LstdFlags)
		syncer := cache.NewSyncer(db, storage, logger)
		wps, deps, err := syncer.FullSync(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%s %d waypoints, %d dependencies\n", ui.RenderPass("Synced"), wps, deps)
		return nil
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache contents and status breakdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, _, _, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Cache: %s\n", ui.Dim(db.Path()))
		fmt.Printf("  waypoints: %d\n", stats.Total)
		for status, n := range stats.ByStatus {
			fmt.Printf("    %-10s %d\n", status, n)
		}
		fmt.Printf("  ready:   %d\n", stats.Ready)
		fmt.Printf("  blocked: %d\n", stats.Blocked)
		return nil
	},
}

// openCache opens the cache database for an initialized workspace,
// creating the schema if needed.
func openCache() (string, *cache.DB, *store.FileStorage, config.Config, error) {
	root, err := dataRoot()
	if err != nil {
		return "", nil, nil, config.Config{}, err
	}
	storage := store.NewFileStorage(root)
	if !storage.Initialized() {
		return "", nil, nil, config.Config{}, fmt.Errorf("no waymark data in this workspace (run 'wm init' first)")
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, nil, cfg, err
	}
	db, err := cache.Open(filepath.Join(root, cfg.CacheFile))
	if err != nil {
		return "", nil, nil, cfg, err
	}
	if err := db.InitSchema(context.Background()); err != nil {
		db.Close()
		return "", nil, nil, cfg, err
	}
	return root, db, storage, cfg, nil
}

func init() {
	cacheCmd.AddCommand(cacheSyncCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	rootCmd.AddCommand(cacheCmd)
}
