package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyike/CortexTrack/config"
	"github.com/dyike/CortexTrack/consts"
	"github.com/dyike/CortexTrack/internal/engineapi"
	"github.com/dyike/CortexTrack/internal/models"
	"github.com/dyike/CortexTrack/internal/pipeline"
	"github.com/dyike/CortexTrack/internal/service"
	"github.com/dyike/CortexTrack/internal/storage"
	"github.com/dyike/CortexTrack/internal/tracker"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "cortextrack",
		Short: "CortexTrack - Analysis Pipeline Progress Tracker",
		Long: `CortexTrack follows a running multi-agent trading analysis and keeps a
live, per-agent view of its twelve-role pipeline. It reconciles the engine's
progress records into one canonical snapshot and refreshes it while the
analysis runs.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newWatchCmd(cfg))
	rootCmd.AddCommand(newStatusCmd(cfg))
	rootCmd.AddCommand(newRolesCmd())
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newFetcher picks the fetch path: remote engine API when a base URL is
// configured, the local sqlite progress store otherwise.
func newFetcher(cfg *config.Config) (tracker.Fetcher, error) {
	if cfg.EngineBaseURL != "" {
		return engineapi.NewClient(cfg)
	}
	store, err := storage.GetSQLiteStore()
	if err != nil {
		return nil, fmt.Errorf("open progress store: %w", err)
	}
	return service.NewProgressService(store, cfg.CacheTTL(), cfg.CacheEnabled), nil
}

// newWatchCmd creates the watch command
func newWatchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [SYMBOL]",
		Short: "Follow a running analysis live",
		Long: `Follow the analysis pipeline for a symbol while it executes, refreshing
the twelve-role progress view on a fixed cadence until the run completes.
Example: cortextrack watch AAPL --date=2026-03-15`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, date, err := resolveSubject(cmd, args)
			if err != nil {
				return err
			}
			return runWatchCommand(cfg, symbol, date)
		},
	}
	cmd.Flags().String("date", "", "Trade date in YYYY-MM-DD format (today if not provided)")
	return cmd
}

// newStatusCmd creates the status command
func newStatusCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [SYMBOL]",
		Short: "Show the current pipeline state once",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, date, err := resolveSubject(cmd, args)
			if err != nil {
				return err
			}
			return runStatusCommand(cfg, symbol, date)
		},
	}
	cmd.Flags().String("date", "", "Trade date in YYYY-MM-DD format (today if not provided)")
	return cmd
}

// newRolesCmd creates the roles command
func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles [ROLE]",
		Short: "List the pipeline roles, or show what feeds one role",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Print(RenderRoleTable())
				return nil
			}
			roleID := strings.ToLower(strings.TrimSpace(args[0]))
			if _, ok := pipeline.RoleByID(roleID); !ok {
				return fmt.Errorf("unknown role %q, run 'cortextrack roles' for the full list", roleID)
			}
			fmt.Print(RenderUpstream(roleID))
			return nil
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		Run: func(cmd *cobra.Command, args []string) {
			if mgr := config.DefaultManager(); mgr != nil {
				fmt.Printf("Config file: %s\n", mgr.Path())
			}
			fmt.Printf("Data dir:        %s\n", cfg.DataDir)
			fmt.Printf("Results dir:     %s\n", cfg.ResultsDir)
			fmt.Printf("Poll interval:   %s\n", cfg.PollInterval())
			fmt.Printf("Reconcile delay: %s\n", cfg.ReconcileDelay())
			if cfg.EngineBaseURL != "" {
				fmt.Printf("Engine API:      %s\n", cfg.EngineBaseURL)
			} else {
				fmt.Println("Engine API:      (local store)")
			}
			fmt.Printf("Cache:           enabled=%v ttl=%s\n", cfg.CacheEnabled, cfg.CacheTTL())
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("CortexTrack v1.0.0")
			fmt.Println("Live progress tracking for multi-agent trading analysis")
		},
	}
}

// resolveSubject collects the (symbol, date) subject from args/flags,
// prompting interactively for anything missing.
func resolveSubject(cmd *cobra.Command, args []string) (string, string, error) {
	var symbol string
	if len(args) > 0 {
		symbol = strings.ToUpper(strings.TrimSpace(args[0]))
	}
	if symbol == "" {
		prompted, err := PromptForTicker()
		if err != nil {
			return "", "", err
		}
		symbol = prompted
	}

	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", "", fmt.Errorf("invalid date format %q, use YYYY-MM-DD", date)
	}
	return symbol, date, nil
}

// runWatchCommand drives the tracker until the analysis completes or the
// user interrupts.
func runWatchCommand(cfg *config.Config, symbol, date string) error {
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{}, 1)
	var t *tracker.Tracker
	t = tracker.New(fetcher,
		tracker.WithPollInterval(cfg.PollInterval()),
		tracker.WithReconcileDelay(cfg.ReconcileDelay()),
		tracker.WithOnUpdate(func(snap *models.PipelineSnapshot) {
			ClearScreen()
			fmt.Print(RenderSnapshot(t.Current()))
			if snap.Status == consts.OverallComplete {
				select {
				case done <- struct{}{}:
				default:
				}
			}
		}),
	)
	defer t.Close()

	ClearScreen()
	fmt.Print(RenderSnapshot(t.Current()))
	t.SetActive(symbol, date, true)

	select {
	case <-done:
		// Run finished: stop polling and give the reconciliation fetch a
		// moment to land before the final render.
		t.SetActive(symbol, date, false)
		wait := cfg.ReconcileDelay() + 500*time.Millisecond
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
		ClearScreen()
		fmt.Print(RenderSnapshot(t.Current()))
		fmt.Println(doneStyle.Render("Analysis complete."))
		return nil
	case <-ctx.Done():
		fmt.Println()
		fmt.Println("Stopped watching.")
		return nil
	}
}

// runStatusCommand resolves and renders the pipeline state once.
func runStatusCommand(cfg *config.Config, symbol, date string) error {
	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.EngineTimeout())
	defer cancel()

	data, err := fetcher.FetchPipelineData(ctx, symbol, date, true)
	if err != nil {
		return fmt.Errorf("fetch pipeline data: %w", err)
	}

	snap := pipeline.Resolve(data)
	fmt.Print(RenderSnapshot(tracker.Status{Snapshot: snap, LastUpdated: snap.ResolvedAt}))
	return nil
}
