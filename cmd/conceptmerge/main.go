package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quantmind-br/conceptmerge/internal/combiner"
	"github.com/quantmind-br/conceptmerge/internal/config"
	"github.com/quantmind-br/conceptmerge/internal/domain"
	"github.com/quantmind-br/conceptmerge/internal/markdown"
	"github.com/quantmind-br/conceptmerge/internal/output"
	"github.com/quantmind-br/conceptmerge/internal/utils"
	"github.com/quantmind-br/conceptmerge/internal/watch"
	"github.com/quantmind-br/conceptmerge/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger

	errCheckFailed = errors.New("check reported warnings")
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Fatal combine errors have already been logged
		if !domain.IsFatal(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "conceptmerge",
	Short: "Combine concept files into one indexed markdown document",
	Long: `ConceptMerge reads a manifest of concepts, one per line as
"Name::file1.md,file2.md", and concatenates the listed files into a single
markdown document with a linked index at the top.

By default concepts.md is read and combined_concepts.md is written, both
next to the executable. Missing files are reported as warnings; an unreadable
manifest or source file, or a failed write, stops the run with exit status 1.`,
	Version:       version.Short(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is %s)", config.ConfigFilePath()))
	rootCmd.PersistentFlags().String("dir", "", "Base directory for manifest and output (default: executable directory)")
	rootCmd.PersistentFlags().StringP("manifest", "m", config.DefaultManifestFile, "Manifest file")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputFile, "Combined output file")
	rootCmd.PersistentFlags().String("source-root", "", "Directory that relative manifest file paths resolve against")
	rootCmd.PersistentFlags().Bool("no-verify", false, "Skip index anchor verification")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Run flags
	rootCmd.Flags().Bool("dry-run", false, "Render without writing the output file")
	rootCmd.Flags().String("report", "", "Write a run report (JSON, or YAML for .yaml/.yml)")
	rootCmd.Flags().BoolP("watch", "w", false, "Rebuild whenever the manifest or a listed file changes")
	rootCmd.Flags().Bool("progress", false, "Show a progress bar")

	// Bind flags to viper
	_ = viper.BindPFlag("paths.base_dir", rootCmd.PersistentFlags().Lookup("dir"))
	_ = viper.BindPFlag("paths.manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("paths.output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("paths.source_root", rootCmd.PersistentFlags().Lookup("source-root"))
	_ = viper.BindPFlag("output.dry_run", rootCmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("output.report", rootCmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("output.progress", rootCmd.Flags().Lookup("progress"))
	_ = viper.BindPFlag("watch.enabled", rootCmd.Flags().Lookup("watch"))

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig loads the configuration and applies the flags that do not map
// one-to-one onto a config key
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if noVerify, _ := cmd.Flags().GetBool("no-verify"); noVerify {
		cfg.Output.VerifyAnchors = false
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *utils.Logger {
	utils.SetGlobalLevel(cfg.Logging.Level)
	return utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  w,
		Verbose: verbose,
	})
}

func newCombiner(cfg *config.Config, logger *utils.Logger, dryRun bool, desc string) *combiner.Combiner {
	opts := combiner.Options{
		Writer:        output.NewWriter(output.WriterOptions{DryRun: dryRun}),
		Logger:        logger,
		SourceRoot:    utils.ExpandPath(cfg.Paths.SourceRoot),
		VerifyAnchors: cfg.Output.VerifyAnchors,
	}
	if cfg.Output.Progress {
		opts.NewProgress = func(total int) domain.ProgressReporter {
			return utils.NewProgressBar(total, desc)
		}
	}
	return combiner.New(opts)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log = newLogger(cfg, cmd.ErrOrStderr())

	// Create context with cancellation
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCombine(ctx, cfg, log)
}

// runCombine performs one combine, or keeps rebuilding until ctx is
// cancelled when watch mode is enabled
func runCombine(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	c := newCombiner(cfg, logger, cfg.Output.DryRun, utils.DescCombining)
	manifestPath := cfg.ManifestPath()
	outputPath := cfg.OutputPath()

	if cfg.Watch.Enabled {
		w, err := watch.New(watch.Options{
			Combiner:     c,
			ManifestPath: manifestPath,
			OutputPath:   outputPath,
			SourceRoot:   utils.ExpandPath(cfg.Paths.SourceRoot),
			Debounce:     cfg.Watch.Debounce,
			Logger:       logger,
			OnResult: func(res *combiner.Result, err error) {
				if err == nil {
					writeReport(cfg, logger, res)
				}
			},
		})
		if err != nil {
			return err
		}
		defer w.Close()
		return w.Run(ctx)
	}

	res, err := c.Combine(manifestPath, outputPath)
	if err != nil {
		return err
	}
	writeReport(cfg, logger, res)

	logger.Info().
		Int("sections", len(res.Sections)).
		Int("warnings", len(res.Diagnostics.Warnings())).
		Dur("duration", res.Duration).
		Msg("Done")
	return nil
}

func writeReport(cfg *config.Config, logger *utils.Logger, res *combiner.Result) {
	if cfg.Output.Report == "" || res == nil {
		return
	}
	path := utils.ExpandPath(cfg.Output.Report)
	if err := output.WriteReport(path, res.Report()); err != nil {
		logger.Error().Err(err).Str("report", path).Msg("Failed to write report")
		return
	}
	logger.Debug().Str("report", path).Msg("Report written")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the manifest without writing output",
	Long: `Renders the combined document in memory and prints every diagnostic:
skipped lines, missing files and index links that would not resolve.
Exits with status 1 when any warning is reported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log = newLogger(cfg, cmd.ErrOrStderr())
		return runCheck(cfg, log, cmd.OutOrStdout())
	},
}

func runCheck(cfg *config.Config, logger *utils.Logger, out io.Writer) error {
	c := newCombiner(cfg, logger, true, utils.DescChecking)

	m, err := c.Load(cfg.ManifestPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load manifest")
		return err
	}
	res, err := c.Render(m)
	if err != nil {
		return err
	}

	for _, d := range res.Diagnostics {
		fmt.Fprintln(out, d.String())
	}
	if cfg.Output.VerifyAnchors {
		printBrokenLinks(out, res)
	}
	fmt.Fprintf(out, "%d concepts, %d warnings\n", len(res.Sections), len(res.Diagnostics.Warnings()))

	if res.Diagnostics.HasWarnings() {
		return errCheckFailed
	}
	return nil
}

// printBrokenLinks lists in-page links inside the concatenated files that
// point at no heading. Index links are already covered by broken-anchor.
func printBrokenLinks(out io.Writer, res *combiner.Result) {
	index := make(map[string]bool)
	for _, a := range res.Anchors() {
		index[strings.TrimPrefix(a, "#")] = true
	}
	for _, l := range markdown.BrokenFragments(res.Document) {
		if index[l.Fragment] {
			continue
		}
		fmt.Fprintf(out, "[info] broken-link: [%s](#%s) matches no heading\n", l.Text, l.Fragment)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
