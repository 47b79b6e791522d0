package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SuhaibK10/startup-idea-evaluator/pkg/adapter"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/config"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/logging"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/pipeline"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/render"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/report"
	"github.com/SuhaibK10/startup-idea-evaluator/pkg/tui"
)

var (
	configFile  string
	logLevel    string
	stagesFile  string
	adapterFlag string
	modelFlag   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ideaeval",
		Short: "Evaluate a startup idea with a four-stage LLM review",
		Long: `ideaeval runs a startup idea past four reviewers in order: a problem
validator, a market researcher, a business model builder and a risk analyzer.
Each reviewer sees the output of the ones before it.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default ~/.ideaeval/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&stagesFile, "stages", "", "stage manifest overriding the built-in stages")

	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(stagesCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(schemaCmd())

	return rootCmd
}

func evaluateCmd() *cobra.Command {
	var (
		input     pipeline.IdeaInput
		outDir    string
		format    string
		plainFlag bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate an idea and print each stage's output",
		Long: `Runs the four evaluation stages for the idea given by --idea, or read from
stdin when --idea is omitted. Use --out to keep run.json, per-stage records
and a markdown report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Idea == "" {
				idea, err := readPipedIdea(cmd.InOrStdin())
				if err != nil {
					return err
				}
				input.Idea = idea
			}
			if err := input.Validate(); err != nil {
				if errors.Is(err, pipeline.ErrEmptyIdea) {
					return fmt.Errorf("please enter your startup idea (--idea or stdin)")
				}
				return err
			}

			env, err := setup(cmd)
			if err != nil {
				return err
			}

			res, err := env.run(cmd.Context(), input, nil)
			if err != nil {
				return err
			}

			rep := report.Build(res, env.catalogue.Name)
			if outDir != "" {
				if err := writeReport(outDir, rep); err != nil {
					return err
				}
				env.logger.Info("report written", "dir", outDir, "run", rep.ID)
			}

			if err := printResult(cmd.OutOrStdout(), format, plainFlag, res, rep); err != nil {
				return err
			}
			return res.Err()
		},
	}

	cmd.Flags().StringVar(&input.Idea, "idea", "", "startup idea (required unless piped on stdin)")
	cmd.Flags().StringVar(&input.Target, "target", "", "target customer")
	cmd.Flags().StringVar(&input.Region, "region", "", "region or market")
	cmd.Flags().StringVar(&input.Pricing, "pricing", "", "pricing idea")
	cmd.Flags().StringVar(&adapterFlag, "adapter", "", "override adapter (openai, anthropic, google, mock)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "override model")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write the run report into")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, markdown, json, yaml)")
	cmd.Flags().BoolVar(&plainFlag, "plain", false, "disable terminal styling")

	return cmd
}

func tuiCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive evaluation form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			// The form owns the terminal; keep logs quiet unless asked for.
			if logLevel == "" {
				env.logger.SetLevel(log.ErrorLevel)
			}

			renderer, err := render.New(render.Options{Width: 100})
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}

			model := tui.New(cmd.Context(), env.run, renderer)
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}

			if m, ok := final.(tui.Model); ok && outDir != "" && m.Result() != nil {
				return writeReport(outDir, report.Build(m.Result(), env.catalogue.Name))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&adapterFlag, "adapter", "", "override adapter (openai, anthropic, google, mock)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "override model")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write the last run's report into")

	return cmd
}

func stagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stages",
		Short: "List the evaluation stages in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cat, err := loadCatalogue(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSTAGE\tAGENT\tROLE\tADAPTER\tMODEL")
			for i, stage := range cat.Stages {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					i+1,
					stage.Name,
					stage.Agent.Name,
					stage.Agent.Role,
					orDash(firstNonEmpty(stage.Adapter, cat.DefaultAdapter)),
					orDash(firstNonEmpty(stage.Model, cat.DefaultModel)),
				)
			}
			return w.Flush()
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List adapters, their credentials and models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			adapters, err := createAdapters(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to create adapters: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ADAPTER\tSTATUS\tMODELS")
			for _, name := range []string{"openai", "anthropic", "google", "mock"} {
				status := "missing key"
				if cfg.HasProvider(name) {
					status = "ready"
				}
				models := "-"
				if a, ok := adapters[name]; ok {
					models = strings.Join(a.Models(), ", ")
				}
				if name == cfg.Provider {
					status += " (default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, status, models)
			}
			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Validate a stage manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := pipeline.LoadManifest(args[0])
			if err != nil {
				return fmt.Errorf("failed to load manifest: %w", err)
			}
			if err := cat.Validate(); err != nil {
				return fmt.Errorf("invalid manifest: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manifest %q is valid (%d stages)\n", cat.Name, len(cat.Stages))
			return nil
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the run report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := report.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

// runEnv holds everything a run needs once config is loaded.
type runEnv struct {
	cfg       *config.Config
	logger    *log.Logger
	adapters  map[string]adapter.Adapter
	catalogue *pipeline.Catalogue
	adapter   string
	model     string
}

func setup(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), firstNonEmpty(logLevel, cfg.LogLevel))
	if err != nil {
		return nil, err
	}

	adapters, err := createAdapters(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create adapters: %w", err)
	}

	name := firstNonEmpty(adapterFlag, cfg.Provider)
	if _, ok := adapters[name]; !ok {
		return nil, fmt.Errorf("adapter %q not available (check its API key)", name)
	}
	model := modelFlag
	if model == "" && name == cfg.Provider {
		model = cfg.Model
	}

	cat, err := loadCatalogue(cfg)
	if err != nil {
		return nil, err
	}

	return &runEnv{
		cfg:       cfg,
		logger:    logger,
		adapters:  adapters,
		catalogue: cat,
		adapter:   name,
		model:     model,
	}, nil
}

func (e *runEnv) run(ctx context.Context, in pipeline.IdeaInput, progress func(pipeline.Event)) (*pipeline.RunResult, error) {
	return pipeline.Run(ctx, e.catalogue, in, pipeline.RunOptions{
		Adapters:       e.adapters,
		DefaultAdapter: e.adapter,
		DefaultModel:   e.model,
		Pricing:        e.cfg.Pricing,
		Logger:         e.logger,
		Progress:       progress,
	})
}

func loadCatalogue(cfg *config.Config) (*pipeline.Catalogue, error) {
	path := firstNonEmpty(stagesFile, cfg.StagesPath)
	if path == "" {
		return pipeline.DefaultCatalogue(), nil
	}
	cat, err := pipeline.LoadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage manifest: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stage manifest: %w", err)
	}
	return cat, nil
}

func createAdapters(ctx context.Context, cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	if cfg.APIKey != "" {
		a, err := adapter.NewOpenAIAdapter(adapter.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Headers: cfg.AttributionHeaders(),
			Timeout: cfg.RequestTimeout(),
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai adapter: %w", err)
		}
		adapters["openai"] = a
	}

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey, cfg.RequestTimeout())
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		adapters["anthropic"] = a
	}

	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(ctx, cfg.GoogleAPIKey, cfg.RequestTimeout())
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		adapters["google"] = a
	}

	adapters["mock"] = adapter.NewMockAdapter()

	return adapters, nil
}

func printResult(w io.Writer, format string, plain bool, res *pipeline.RunResult, rep *report.Report) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(rep))
		return err
	case "text", "":
		renderer, err := render.New(render.Options{Width: 100, Plain: plain})
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		for _, stage := range res.Stages {
			switch stage.Status {
			case pipeline.StatusSucceeded:
				fmt.Fprintln(w, renderer.Panel(stage.Label, stage.Text))
			case pipeline.StatusFailed:
				fmt.Fprintln(w, renderer.ErrorPanel(stage.Label, stage.Err))
			default:
				fmt.Fprintf(w, "%s (skipped)\n", stage.Label)
			}
			fmt.Fprintln(w)
		}
		if res.Err() == nil {
			fmt.Fprintln(w, "✅ Evaluation complete.")
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, markdown, json or yaml)", format)
	}
}

func writeReport(dir string, rep *report.Report) error {
	writer, err := report.NewWriter(dir, rep.ID)
	if err != nil {
		return fmt.Errorf("failed to create report writer: %w", err)
	}
	if err := writer.WriteAll(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func readPipedIdea(r io.Reader) (string, error) {
	if f, ok := r.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read idea from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
