package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/steveyegge/waymark/internal/config"
	"github.com/steveyegge/waymark/internal/core"
	"github.com/steveyegge/waymark/internal/notes"
	"github.com/steveyegge/waymark/internal/notify"
	"github.com/steveyegge/waymark/internal/session"
	"github.com/steveyegge/waymark/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "wm",
	Short: "Waymark - dependency-aware waypoint tracking",
	Long: `Waymark tracks units of work as waypoints in a dependency graph.

A waypoint is blocked until every waypoint it depends on is done, and
ready once they are. Status beyond that (active, done, abandoned) is
set explicitly. Waypoints live on branches; a branch can be merged into
another as a structural copy with fresh identifiers.

Data lives in a .waymark directory as plain JSON collections. Run
'wm init' once in a workspace before anything else.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentFlags().String("branch", "", "Branch to operate on (default: configured default branch)")

	viper.SetEnvPrefix("WAYMARK")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("branch", rootCmd.PersistentFlags().Lookup("branch"))

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "graph", Title: "Graph Commands:"},
		&cobra.Group{ID: "advanced", Title: "Advanced Commands:"},
	)
}

// workspaceRoot resolves the workspace directory from --dir, WAYMARK_DIR,
// or the current directory.
func workspaceRoot() (string, error) {
	if dir := viper.GetString("dir"); dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// dataRoot returns the .waymark directory inside the workspace.
func dataRoot() (string, error) {
	ws, err := workspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(ws, store.DirName), nil
}

// debugWriter returns the rotating debug log writer, or io.Discard when
// logging is disabled.
func debugWriter(root string, cfg config.Config) io.Writer {
	if cfg.DebugLog == "" {
		return io.Discard
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(root, cfg.DebugLog),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}
}

// newService builds the core service for an initialized workspace. It
// wires storage, notes, event emitters, and the session, honoring the
// --branch flag and WAYMARK_BRANCH.
func newService() (*core.Service, config.Config, error) {
	root, err := dataRoot()
	if err != nil {
		return nil, config.Config{}, err
	}

	storage := store.NewFileStorage(root)
	if !storage.Initialized() {
		return nil, config.Config{}, fmt.Errorf("no waymark data in this workspace (run 'wm init' first)")
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, cfg, err
	}

	logger := log.New(debugWriter(root, cfg), "[wm] ", log.LstdFlags)

	emitters := notify.Multi{notify.NewLogEmitter(logger)}
	if cfg.EventLog {
		emitters = append(emitters, notify.NewFileEmitter(filepath.Join(root, "events.jsonl"), logger))
	}

	sess := session.New()
	if branch := viper.GetString("branch"); branch != "" {
		sess.SetActiveBranch(branch)
	} else if cfg.DefaultBranch != "" {
		sess.SetActiveBranch(cfg.DefaultBranch)
	}

	noteStore := notes.NewFileStore(storage, nil)
	svc := core.New(storage, noteStore, emitters, sess, core.WithLogger(logger))
	return svc, cfg, nil
}
