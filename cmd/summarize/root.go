package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"blog-summary/internal/config"
	"blog-summary/internal/infra/summarizer"
	"blog-summary/internal/observability/logging"
	"blog-summary/internal/usecase/summary"
)

type options struct {
	sentences  int
	mode       string
	configPath string
	provider   string
	output     string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "summarize [file]",
		Short: "Summarize a text",
		Long: `Summarize a text file, or stdin when no file is given.

The external provider is tried first when one is configured; the local
extractive summarizer answers otherwise.

Examples:
  summarize post.md
  cat post.md | summarize --sentences 2
  summarize post.md --mode lead
  summarize post.md --provider claude --verbose
  summarize post.md --config summary.yaml --output json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSummarize(cmd, args, opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.sentences, "sentences", "n", 0, "number of sentences (0 uses the configured default)")
	f.StringVar(&opts.mode, "mode", string(summary.ModeAuto), "auto, local or lead")
	f.StringVar(&opts.configPath, "config", "", "YAML summary configuration file")
	f.StringVar(&opts.provider, "provider", "", "override the provider: none, openai or claude")
	f.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print the summary source and debug logs")
	return cmd
}

type result struct {
	Summary string `json:"summary"`
	Source  string `json:"source"`
}

func runSummarize(cmd *cobra.Command, args []string, opts *options) error {
	logger := logging.NewCLILogger(cmd.ErrOrStderr(), opts.verbose)

	mode, err := summary.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.sentences < 0 {
		return fmt.Errorf("--sentences must not be negative")
	}
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("--output must be text or json: got %q", opts.output)
	}

	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}

	content, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	n := opts.sentences
	if n == 0 {
		n = cfg.SentenceCount
	}

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	logger.Debug("summarizing",
		slog.String("provider", svc.ProviderName()),
		slog.String("mode", string(mode)),
		slog.Int("sentences", n),
		slog.Int("chars", len(content)))

	res, err := svc.Preview(cmd.Context(), content, n, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result{Summary: res.Text, Source: string(res.Source)})
	}
	fmt.Fprintln(out, res.Text)
	if opts.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "source: %s\n", res.Source)
	}
	return nil
}

// loadConfig never fails over a missing API key: the CLI degrades to
// local summaries and says so.
func loadConfig(opts *options, logger *slog.Logger) (*config.SummaryConfig, error) {
	keyless := config.FallbackOnMissingKey(func(provider string) {
		logger.Warn("no API key for provider, using local summaries", slog.String("provider", provider))
	})

	var (
		cfg *config.SummaryConfig
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadSummaryConfigFile(opts.configPath, keyless)
	} else {
		cfg, err = config.LoadSummaryConfig(keyless)
	}
	if err != nil {
		return nil, err
	}
	if opts.provider == "" {
		return cfg, nil
	}
	overridden, err := cfg.WithProvider(opts.provider, keyless)
	if err != nil {
		return nil, fmt.Errorf("--provider: %w", err)
	}
	return &overridden, nil
}

func newService(cfg *config.SummaryConfig) (*summary.Service, error) {
	provider, err := summarizer.New(cfg)
	if err != nil {
		return nil, err
	}
	return summary.NewServiceFromConfig(cfg, provider)
}

func readInput(stdin io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 && args[0] != "-" {
		// #nosec G304 -- the path is the operator's own argument
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
