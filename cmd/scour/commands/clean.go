package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/scour/internal/logger"
	"github.com/jmylchreest/scour/internal/output"
	"github.com/jmylchreest/scour/internal/version"
	"github.com/jmylchreest/scour/pkg/cleaner"
	"github.com/jmylchreest/scour/pkg/cleaner/text"
	"github.com/jmylchreest/scour/pkg/fetcher"
)

const stdinSource = "-"

var cleanCmd = &cobra.Command{
	Use:   "clean [file|url|-]...",
	Short: "Clean files, URLs or stdin",
	Long: `Run the cleaning pipeline locally.

Each argument is a file path, an http(s) URL or "-" for stdin. With no
arguments stdin is read. URLs are fetched without running scripts and the
page body is cleaned.

Examples:
  # Clean a file to stdout
  scour clean page.html

  # Clean several inputs into one JSON array
  scour clean --format json a.html b.txt

  # Show the pipeline stats for a page
  scour clean --stats https://example.com/article

  # Inspect the fetched input without cleaning it
  scour clean --raw https://example.com/article

  # Run the pipeline twice to check a page is already clean
  scour clean --cleaner text,text page.html`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", string(output.FormatText), "output format: text, json, jsonl, yaml")
	flags.Bool("stats", false, "print pipeline stats to stderr (embedded in json/jsonl/yaml output)")
	flags.Bool("raw", false, "skip cleaning and emit the input as read (same as --cleaner noop)")
	flags.StringSlice("cleaner", []string{"text"}, "cleaners to apply in order: text, noop")
	flags.Duration("timeout", 30*time.Second, "fetch timeout for URLs")
}

// cleanOptions holds the resolved flags of the clean command.
type cleanOptions struct {
	format   output.Format
	stats    bool
	raw      bool
	cleaners []string
	timeout  time.Duration
}

func runClean(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	formatName, _ := flags.GetString("format")
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	opts := cleanOptions{format: format}
	opts.stats, _ = flags.GetBool("stats")
	opts.raw, _ = flags.GetBool("raw")
	opts.cleaners, _ = flags.GetStringSlice("cleaner")
	opts.timeout, _ = flags.GetDuration("timeout")

	if len(args) == 0 {
		args = []string{stdinSource}
	}

	out := cmd.OutOrStdout()
	if path, _ := flags.GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
		defer logInfo("Output written to %s", path)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return cleanInputs(ctx, opts, args, cmd.InOrStdin(), out, cmd.ErrOrStderr())
}

// cleanInputs cleans every source in order and writes one record per source.
func cleanInputs(ctx context.Context, opts cleanOptions, sources []string, stdin io.Reader, stdout, stderr io.Writer) error {
	w, err := output.NewWriter(stdout, opts.format)
	if err != nil {
		return err
	}

	cl, err := buildCleaner(opts.cleaners)
	if err != nil {
		return err
	}
	if opts.raw {
		cl = cleaner.NewNoop()
	}

	f := fetcher.NewStatic(fetcher.StaticConfig{
		UserAgent: version.UserAgent(),
		Timeout:   opts.timeout,
	})

	for _, src := range sources {
		content, err := readSource(ctx, f, src, stdin)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}

		rec, err := cleanSource(cl, src, content, opts.stats)
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}

		if opts.stats && rec.Stats != nil && opts.format == output.FormatText {
			fmt.Fprintf(stderr, "== %s\n%s", src, rec.Stats.String())
			rec.Stats = nil
		}
		for _, warn := range rec.Warnings {
			logger.Warn("cleaning warning", "source", src, "warning", warn.String())
		}

		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return w.Close()
}

// buildCleaner resolves cleaner names. More than one name builds a chain that
// applies them in order. No names means the text pipeline.
func buildCleaner(names []string) (cleaner.Cleaner, error) {
	var cleaners []cleaner.Cleaner
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text":
			cleaners = append(cleaners, text.New())
		case "noop":
			cleaners = append(cleaners, cleaner.NewNoop())
		case "":
		default:
			return nil, fmt.Errorf("unknown cleaner: %s", name)
		}
	}

	switch len(cleaners) {
	case 0:
		return text.New(), nil
	case 1:
		return cleaners[0], nil
	default:
		return cleaner.NewChain(cleaners...), nil
	}
}

// cleanSource runs cl on content. Stats are only collected when asked for and
// when cl is the text pipeline on its own.
func cleanSource(cl cleaner.Cleaner, src, content string, withStats bool) (output.Record, error) {
	rec := output.Record{Source: src}

	if tc, ok := cl.(*text.Cleaner); ok && withStats {
		res := tc.CleanWithStats(content)
		rec.Clean = res.Content
		rec.Stats = res.Stats
		rec.Warnings = res.Warnings
		return rec, nil
	}

	clean, err := cl.Clean(content)
	if err != nil {
		return rec, err
	}
	rec.Clean = clean
	logger.Debug("cleaned", "source", src, "cleaner", cl.Name(), "input_bytes", len(content), "output_bytes", len(clean))
	return rec, nil
}

// readSource returns the content named by src.
func readSource(ctx context.Context, f fetcher.Fetcher, src string, stdin io.Reader) (string, error) {
	switch {
	case src == stdinSource:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case isURL(src):
		page, err := f.Fetch(ctx, src)
		if err != nil {
			return "", err
		}
		logger.Debug("fetched", "url", src, "status", page.StatusCode, "title", page.Title, "fetcher", f.Type())
		return page.Body, nil
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
