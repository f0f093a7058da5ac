package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fintools/internal/app/config"
	"fintools/internal/app/di"
	convent "fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/snapshot/domain/entity"
)

// cli holds state shared by every subcommand.
type cli struct {
	verbose bool
	app     *di.App
}

// close releases the application built by the root command, if any.
func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		slog.Warn("failed to close resources", "error", err)
	}
	c.app = nil
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:          "fintools",
		Short:        "Convert ISINs to exchange-qualified ticker symbols and diff symbol snapshots",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			app, err := di.NewApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			c.app = app
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		c.resolveCmd(),
		c.convertCmd(),
		c.compareCmd(),
		c.cacheCmd(),
		c.snapshotsCmd(),
	)
	return rootCmd, c
}

func (c *cli) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [file...]",
		Short: "Resolve ISINs (one per line, stdin when no file is given) and print ISIN and symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(cmd, args)
			if err != nil {
				return err
			}
			symbols, resolveErr := c.app.Resolver.Resolve(cmd.Context(), lines)
			out := cmd.OutOrStdout()
			for _, isin := range convent.ExtractIdentifiers(lines) {
				if sym, ok := symbols[isin]; ok {
					fmt.Fprintf(out, "%s\t%s\n", isin, sym)
				}
			}
			return resolveErr
		},
	}
}

func (c *cli) convertCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Resolve ISINs and write a timestamped stocklist snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(cmd, args)
			if err != nil {
				return err
			}
			res, err := c.app.Exporter.Export(cmd.Context(), lines, outDir)
			if res == nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Snapshot == nil {
				fmt.Fprintln(out, "nothing resolved")
			} else {
				fmt.Fprintf(out, "%s (%d symbols, %d errors)\n", res.Snapshot.Path, res.Snapshot.Lines, res.Symbols.Errors())
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to the configured output path)")
	return cmd
}

func (c *cli) compareCmd() *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "compare [older newer]",
		Short: "Diff two stocklist snapshots and write a ###NEW/###GONE report",
		Args: func(cmd *cobra.Command, args []string) error {
			if latest && len(args) > 0 {
				return fmt.Errorf("--latest takes no arguments, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				report *entity.DiffReport
				err    error
			)
			if latest {
				report, err = c.app.Comparer.CompareLatest(cmd.Context())
			} else {
				report, err = c.app.Comparer.Compare(cmd.Context(), args)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s\n", report.Older.Name, report.Newer.Name)
			_, _ = out.Write(report.Render())
			fmt.Fprintf(out, "report: %s\n", report.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "compare the two newest snapshots")
	return cmd
}

func (c *cli) cacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the persisted symbol cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print cached ISIN to symbol mappings sorted by symbol",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, e := range c.app.Symbols.Read(cmd.Context()).Entries() {
				fmt.Fprintf(out, "%s\t%s\n", e.ISIN, e.Symbol)
			}
			return nil
		},
	})
	return cacheCmd
}

func (c *cli) snapshotsCmd() *cobra.Command {
	var (
		kind  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List written snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := c.app.Catalog.List(cmd.Context(), entity.Kind(kind), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range snaps {
				fmt.Fprintf(out, "%s\t%s\t%d\n", s.Timestamp, s.Path, s.Lines)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(entity.KindStocklist), "stocklist or diff")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries (0 for all)")
	return cmd
}

// readLines reads every line of the given files, or of stdin when none are given.
func readLines(cmd *cobra.Command, files []string) ([]string, error) {
	if len(files) == 0 {
		return scanLines(cmd.InOrStdin())
	}
	var lines []string
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		ls, err := scanLines(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		lines = append(lines, ls...)
	}
	return lines, nil
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
