package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ketan18710/clean-my-mac/internal/config"
	"github.com/ketan18710/clean-my-mac/internal/history"
	"github.com/ketan18710/clean-my-mac/internal/platform"
	"github.com/ketan18710/clean-my-mac/internal/progress"
	"github.com/ketan18710/clean-my-mac/internal/reporter"
	"github.com/ketan18710/clean-my-mac/internal/scan"
	"github.com/ketan18710/clean-my-mac/internal/spotlight"
	"github.com/ketan18710/clean-my-mac/internal/ui"
	"github.com/ketan18710/clean-my-mac/pkg/utils"
)

var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath   string
	verbose      bool
	rootsFlag    []string
	groupsFlag   []string
	minAgeDays   int
	minSize      string
	outputFmt    string
	outputFile   string
	listJSON     bool
	listTree     bool
	historyLimit int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cleanmymac",
	Short: "Find and trash files you have not used in a long time",
	Long: `clean-my-mac asks the Spotlight index for images, videos, archives and
other files you have not opened past a threshold, then lets you review
them and move them to the Trash. Nothing is deleted permanently.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan interactively and pick files to trash",
	Long:  `Runs a scan and opens the interactive browser to review, select and trash the results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		return ui.RunInteractive(cfg, logger)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Scan and print the found files, non-interactively",
	Long:  `Runs a scan and prints each found file to stdout. Suitable for piping.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		// Tree output needs the full set up front; the flat formats
		// print each record the moment the pipeline accepts it.
		if listTree {
			sum, files, err := runHeadlessScan(cfg, logger, nil)
			if err != nil {
				return err
			}
			ui.PrintDetailedTree(files, sum.TotalSizeBytes)
			printScanFooter(sum)
			return nil
		}

		sum, _, err := runHeadlessScan(cfg, logger, newLineSink(listJSON))
		if err != nil {
			return err
		}
		printScanFooter(sum)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Scan and generate a report",
	Long:  `Runs a scan and renders the results in the chosen format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}

		sum, files, err := runHeadlessScan(cfg, logger, nil)
		if err != nil {
			return err
		}

		if outputFile != "" {
			if fi, err := os.Stat(outputFile); err == nil && fi.IsDir() {
				outputFile = filepath.Join(outputFile, reporter.DefaultFilename(sum.RunID.String(), format))
			}
			if err := reporter.SaveToFile(sum, files, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report saved to: %s\n", outputFile)
			return nil
		}

		return reporter.New(os.Stdout, format).Report(sum, files)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent scans and trash actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		histPath, err := config.GetHistoryPath()
		if err != nil {
			return err
		}

		entries, err := history.NewLog(histPath).Tail(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No history yet. Run a scan first.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%-14s %-6s %5d files  %10s  run %s\n",
				humanize.Time(e.Timestamp),
				e.Action,
				e.Count,
				utils.FormatBytes(e.TotalSizeBytes),
				shortRunID(e.RunID.String()))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("Run 'cleanmymac config init' to create one.")
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.EnsureConfigExists()
		if err != nil {
			return err
		}
		fmt.Printf("Config ready at: %s\n", cfgPath)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	for _, c := range []*cobra.Command{scanCmd, listCmd, reportCmd} {
		c.Flags().StringSliceVar(&rootsFlag, "roots", nil, "directories to scan (overrides config)")
		c.Flags().StringSliceVar(&groupsFlag, "groups", nil, "type groups to include: image, video, archive, other")
		c.Flags().IntVar(&minAgeDays, "min-age-days", 0, "only files unused for at least this many days")
		c.Flags().StringVar(&minSize, "min-size", "", "minimum size for non-image files, e.g. 50MB")
	}

	listCmd.Flags().BoolVar(&listJSON, "json", false, "print one JSON object per line")
	listCmd.Flags().BoolVar(&listTree, "tree", false, "print results as a tree grouped by type")

	reportCmd.Flags().StringVar(&outputFmt, "format", "summary", "output format (summary, table, json, yaml, csv)")
	reportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "save report to file (a directory gets a run-stamped filename)")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

// applyFlagOverrides layers command line flags over the loaded config
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("roots") {
		cfg.Scan.Roots = rootsFlag
	}
	if cmd.Flags().Changed("groups") {
		cfg.Scan.IncludeGroups = groupsFlag
	}
	if cmd.Flags().Changed("min-age-days") {
		cfg.Scan.MinAgeDays = minAgeDays
	}
	if cmd.Flags().Changed("min-size") {
		cfg.Scan.MinSize = minSize
	}
	if verbose {
		cfg.Logging.Verbose = true
	}
}

// newLogger builds the process logger. Verbose mode gets the console
// development encoder, otherwise JSON on stderr at warn level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Logging.Verbose {
		return zap.NewDevelopment()
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zapCfg.Build()
}

// lineSink prints records to stdout as the scan delivers them, one
// line per file.
type lineSink struct {
	asJSON bool
	enc    *json.Encoder
}

func newLineSink(asJSON bool) *lineSink {
	return &lineSink{asJSON: asJSON, enc: json.NewEncoder(os.Stdout)}
}

func (s *lineSink) Deliver(rec scan.FileRecord) {
	if s.asJSON {
		row := map[string]interface{}{
			"path":         rec.Path,
			"size_bytes":   rec.SizeBytes,
			"group":        rec.Group,
			"content_type": rec.ContentType,
			"modified":     rec.LastModifiedAt.Format(time.RFC3339),
		}
		if !rec.LastUsedAt.IsZero() {
			row["last_used"] = rec.LastUsedAt.Format(time.RFC3339)
		}
		s.enc.Encode(row)
		return
	}
	lastUsed := "-"
	if !rec.LastUsedAt.IsZero() {
		lastUsed = rec.LastUsedAt.Format("2006-01-02")
	}
	fmt.Printf("%10s  %-8s  %10s  %s\n",
		utils.FormatBytes(rec.SizeBytes), rec.Group, lastUsed, rec.Path)
}

// runHeadlessScan runs the pipeline without the TUI, with live
// progress on stderr and a clean ctrl+c teardown. With a nil sink the
// records are collected and returned; a non-nil sink receives them as
// they arrive and the returned slice is nil.
func runHeadlessScan(cfg *config.Config, logger *zap.Logger, sink scan.Sink) (*scan.Summary, []scan.FileRecord, error) {
	if !platform.SupportsSpotlight() {
		return nil, nil, fmt.Errorf("this tool relies on Spotlight and only runs on macOS")
	}
	if !spotlight.Available() {
		return nil, nil, fmt.Errorf("mdfind not found in PATH; is Spotlight available on this machine?")
	}

	scanCfg, err := cfg.ToScanConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid scan settings: %w", err)
	}

	var collector *scan.Collector
	if sink == nil {
		collector = scan.NewCollector()
		sink = collector
	}
	rep := progress.NewReporter()
	ctrl := scan.NewController(scanCfg, sink, rep, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lp := ui.NewLiveProgress()
	if cfg.Logging.Verbose || collector == nil {
		// Debug log lines or streamed records and the redrawn status
		// area would interleave
		lp.SetEnabled(false)
	}
	lp.Start()
	events := rep.Subscribe()
	pollDone := make(chan struct{})
	pollExited := make(chan struct{})
	go func(events <-chan interface{}) {
		defer close(pollExited)
		ticker := time.NewTicker(150 * time.Millisecond)
		defer ticker.Stop()
		var lastPlain time.Time
		for {
			select {
			case <-pollDone:
				return
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if skipped, isSkip := ev.(*progress.RootSkipped); isSkip {
					lp.Note(fmt.Sprintf("⚠ skipped root %s: %v", skipped.Root, skipped.Err))
				}
			case <-ticker.C:
				p := rep.GetScanProgress()
				if p == nil {
					continue
				}
				if lp.Enabled() {
					lp.Update(p.Root, p.Root, p.Found, p.TotalSize)
				} else if time.Since(lastPlain) >= 2*time.Second {
					// Piped stderr still gets a coarse heartbeat
					lastPlain = time.Now()
					fmt.Fprintln(os.Stderr, progress.FormatScanProgress(p))
				}
			}
		}
	}(events)

	sum := ctrl.Run(ctx)
	close(pollDone)
	<-pollExited
	rep.Unsubscribe(events)
	lp.Finish()

	if sum.Outcome == scan.OutcomeFailed {
		return sum, nil, fmt.Errorf("scan failed: %w", sum.Err)
	}

	if histPath, err := config.GetHistoryPath(); err == nil {
		entry := history.Entry{
			Action:         history.ActionScan,
			RunID:          sum.RunID,
			Count:          int(sum.Found),
			TotalSizeBytes: sum.TotalSizeBytes,
		}
		if err := history.NewLog(histPath).Append(entry); err != nil {
			logger.Warn("failed to record history", zap.Error(err))
		}
	}

	if collector == nil {
		return sum, nil, nil
	}
	return sum, collector.Drain(), nil
}

// printScanFooter prints totals and warnings to stderr after a
// headless scan
func printScanFooter(sum *scan.Summary) {
	fmt.Fprintf(os.Stderr, "\n%d files, %s reclaimable",
		sum.Found, utils.FormatBytes(sum.TotalSizeBytes))
	if sum.Outcome == scan.OutcomeCancelled {
		fmt.Fprint(os.Stderr, " (partial, scan was cancelled)")
	}
	fmt.Fprintln(os.Stderr)

	for _, w := range sum.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ skipped root %s: %v\n", w.Root, w.Err)
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
