// Package main provides the feedreel CLI entry point.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/feedreel/internal/aggregator"
	"github.com/gauthierbraillon/feedreel/internal/carousel"
	"github.com/gauthierbraillon/feedreel/internal/catalog"
	"github.com/gauthierbraillon/feedreel/internal/config"
	"github.com/gauthierbraillon/feedreel/internal/display"
	"github.com/gauthierbraillon/feedreel/internal/engagement"
	"github.com/gauthierbraillon/feedreel/internal/kvstore"
	"github.com/gauthierbraillon/feedreel/internal/ledger"
	"github.com/gauthierbraillon/feedreel/internal/logging"
	"github.com/gauthierbraillon/feedreel/internal/pexels"
	"github.com/gauthierbraillon/feedreel/internal/playback"
	"github.com/gauthierbraillon/feedreel/internal/ui"
	"github.com/gauthierbraillon/feedreel/pkg/browser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for feedreel CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "feedreel",
		Short:   "Scroll a short-form video and photo feed in the terminal",
		Long:    "Feedreel assembles a shuffled feed of videos and photo carousels, autoplays what is on screen and keeps likes, saves, shares and streaks between runs.",
		Version: currentVersion(),
	}

	rootCmd.SetVersionTemplate("feedreel version {{.Version}}\n")

	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newToggleCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// setup resolves configuration and initializes the global logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	return cfg, logging.Logger(), nil
}

// openLedger opens the configured store and a ledger over it. The caller
// closes the store.
func openLedger(cfg *config.Config, logger zerolog.Logger, seed uint64) (*ledger.Ledger, kvstore.Store, error) {
	store, err := kvstore.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store in %s: %w", cfg.Store, cfg.DataDir, err)
	}

	opts := []ledger.Option{
		ledger.WithRange(cfg.SeedMin, cfg.SeedMax),
		ledger.WithLogger(logger),
	}
	if seed != 0 {
		opts = append(opts, ledger.WithSeed(seed))
	}
	return ledger.New(store, opts...), store, nil
}

// buildFeed fetches the catalog and assembles the feed over led.
func buildFeed(ctx context.Context, cfg *config.Config, logger zerolog.Logger, led *ledger.Ledger, seed uint64) (*aggregator.Aggregator, []aggregator.FeedEntry, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	src := pexels.NewClient(cfg.APIKey, pexels.WithBaseURL(cfg.APIURL))
	cat := catalog.NewClient(src, catalog.Options{
		VideoQuery: cfg.VideoQuery,
		VideoCount: cfg.VideoCount,
		ImageCount: cfg.ImageCount,
		BatchSize:  cfg.BatchSize,
		Logger:     logger,
	})

	opts := []aggregator.Option{aggregator.WithLogger(logger)}
	if seed != 0 {
		opts = append(opts, aggregator.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	agg := aggregator.New(cat, led, opts...)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	entries, err := agg.BuildFeed(ctx)
	if err != nil {
		return nil, nil, err
	}
	return agg, entries, nil
}

// newFeedCmd creates the feed subcommand.
func newFeedCmd() *cobra.Command {
	var limit int
	var kind string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Display the assembled feed",
		Long:  "Fetch videos and photos, seed engagement for new items and print the shuffled feed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := aggregator.FeedOptions{Limit: limit}
			switch catalog.Kind(kind) {
			case "":
			case catalog.KindVideo, catalog.KindImageGroup:
				opts.Kinds = []catalog.Kind{catalog.Kind(kind)}
			default:
				return fmt.Errorf("invalid kind %q: must be 'video' or 'image-group'", kind)
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			led, store, err := openLedger(cfg, logger, seed)
			if err != nil {
				return err
			}
			defer store.Close()

			agg, _, err := buildFeed(cmd.Context(), cfg, logger, led, seed)
			if err != nil {
				return err
			}

			formatter := display.NewTerminalFormatter()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeed(agg.GetFeed(opts)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of items to display")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Filter by kind (video, image-group)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for shuffling and new counts (0 = random)")

	return cmd
}

// newToggleCmd creates the toggle subcommand.
func newToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <item-id> <action>",
		Short: "Toggle an action (likes, saves, shares, streak) on an item",
		Long:  "Apply a toggle to the stored engagement of an item and print the new count and icon state. Comments are read-only and chime is display-only.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, action := args[0], ledger.ActionType(args[1])

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			led, store, err := openLedger(cfg, logger, 0)
			if err != nil {
				return err
			}
			defer store.Close()

			ctrl := engagement.NewController(led, nil, logger)
			res, err := ctrl.Toggle(itemID, action)
			if err != nil {
				return fmt.Errorf("toggle failed: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatToggle(res))
			return nil
		},
	}

	return cmd
}

// newStatsCmd creates the stats subcommand.
func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <item-id>",
		Short: "Show stored engagement for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			led, store, err := openLedger(cfg, logger, 0)
			if err != nil {
				return err
			}
			defer store.Close()

			counters, flags, found, err := led.Lookup(args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatStats(args[0], counters, flags, found))
			return nil
		},
	}

	return cmd
}

// newPlayCmd creates the interactive play subcommand.
func newPlayCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Scroll the feed interactively",
		Long:  "Open the interactive feed: the video on screen autoplays muted, space pauses or resumes, and engagement keys toggle likes, saves, shares and streaks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to a file.
			if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "feedreel.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()
			logging.Init(logging.Config{Level: cfg.LogLevel, Format: "json", Output: logFile})
			logger := logging.Logger()

			led, store, err := openLedger(cfg, logger, seed)
			if err != nil {
				return err
			}
			defer store.Close()

			agg, entries, err := buildFeed(cmd.Context(), cfg, logger, led, seed)
			if err != nil {
				return err
			}

			var program atomic.Pointer[tea.Program]
			send := func(msg tea.Msg) {
				if p := program.Load(); p != nil {
					p.Send(msg)
				}
			}

			ctrl := engagement.NewController(led, entries, logger)
			ctrl.OnChange(func(ch engagement.Change) { send(ui.EntryChangedMsg(ch)) })

			player := ui.NewStatusPlayer(entries)
			sched := playback.NewScheduler(player,
				playback.WithThreshold(cfg.VisibilityThreshold),
				playback.WithLogger(logger),
				playback.WithNotify(func(st playback.State) { send(ui.PlaybackMsg(st)) }),
			)
			watcher := playback.NewViewportWatcher(len(entries), ui.ItemHeight, ui.ItemHeight, cfg.VisibilityThreshold, 2*len(entries)+2)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() { _ = sched.Run(ctx, watcher) }()

			model := ui.NewModel(ui.Deps{
				Controller: ctrl,
				Scheduler:  sched,
				Watcher:    watcher,
				Carousel:   carousel.New(),
				Player:     player,
				Open:       browser.Open,
				Reload: func() ([]aggregator.FeedEntry, error) {
					rctx, rcancel := context.WithTimeout(ctx, cfg.Timeout)
					defer rcancel()
					return agg.BuildFeed(rctx)
				},
			})

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			program.Store(p)
			_, err = p.Run()
			watcher.Close()
			return err
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for shuffling and new counts (0 = random)")

	return cmd
}

// newOpenCmd creates the open subcommand.
func newOpenCmd() *cobra.Command {
	var slide int

	cmd := &cobra.Command{
		Use:   "open <item-id>",
		Short: "Open an item's media in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			led, store, err := openLedger(cfg, logger, 0)
			if err != nil {
				return err
			}
			defer store.Close()

			_, entries, err := buildFeed(cmd.Context(), cfg, logger, led, 0)
			if err != nil {
				return err
			}

			for _, e := range entries {
				if e.ID != args[0] {
					continue
				}
				if slide < 0 || slide >= len(e.Sources) {
					return fmt.Errorf("invalid slide %d: %s has %d source(s)", slide, e.ID, len(e.Sources))
				}
				url := e.Sources[slide]
				fmt.Fprintf(cmd.OutOrStdout(), "Opening %s...\n", url)
				if err := browser.Open(url); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Could not open browser. Please visit:\n%s\n", url)
				}
				return nil
			}
			return fmt.Errorf("item %q not found in the current feed", args[0])
		},
	}

	cmd.Flags().IntVarP(&slide, "slide", "n", 0, "Photo index within an image group")

	return cmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show resolved configuration",
		Long:  "Print the configuration feedreel resolved from the environment and .env.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
			fmt.Fprintf(out, "Store: %s\n", cfg.Store)
			fmt.Fprintf(out, "API URL: %s\n", cfg.APIURL)
			fmt.Fprintf(out, "API key: %s\n", maskKey(cfg.APIKey))
			fmt.Fprintf(out, "Video query: %s (%d videos)\n", cfg.VideoQuery, cfg.VideoCount)
			fmt.Fprintf(out, "Images: %d in groups of %d\n", cfg.ImageCount, cfg.BatchSize)
			fmt.Fprintf(out, "Seed range: [%d, %d]\n", cfg.SeedMin, cfg.SeedMax)
			fmt.Fprintf(out, "Visibility threshold: %v\n", cfg.VisibilityThreshold)
			return nil
		},
	}

	return cmd
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
