// Command prscore runs the patent relevance scoring engine, either as
// an HTTP service or as a one-shot CLI evaluation.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ishu121992/agentic-eval/infrastructure/evaluators"
	"github.com/ishu121992/agentic-eval/infrastructure/llm"
	"github.com/ishu121992/agentic-eval/infrastructure/middleware"
	"github.com/ishu121992/agentic-eval/internal/application"
	"github.com/ishu121992/agentic-eval/internal/domain"
	"github.com/ishu121992/agentic-eval/internal/ports"
	"github.com/ishu121992/agentic-eval/internal/server"
)

const serviceName = "prscore"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "prscore",
		Short:         "Patent relevance scoring engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML configuration file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newEvaluateCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP evaluation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Logging.Level)
			slog.SetDefault(logger)

			collector := middleware.NewPrometheusMetrics()
			pipeline, err := buildPipeline(cfg, logger, collector)
			if err != nil {
				return err
			}

			srv := server.New(pipeline, logger)
			logger.Info("starting HTTP service", "addr", cfg.Server.Addr)

			httpServer := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return httpServer.ListenAndServe()
		},
	}
}

func newEvaluateCmd(configPath *string) *cobra.Command {
	var inputPath, outputPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one invention record from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Logging.Level)
			slog.SetDefault(logger)

			pipeline, err := buildPipeline(cfg, logger, nil)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading input file: %w", err)
			}
			var rec domain.InventionRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("parsing input file: %w", err)
			}

			result, err := pipeline.Evaluate(cmd.Context(), rec,
				application.WithProgress(func(msg string) {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
				}),
			)
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
					return fmt.Errorf("writing output file: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "path to invention record JSON (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "optional path to write the result JSON")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func loadConfig(path string) (application.AppConfig, error) {
	if path == "" {
		return application.DefaultAppConfig(), nil
	}
	return application.LoadAppConfig(path)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// buildPipeline assembles evaluators and pipeline configuration. With
// no LLM provider configured, the deterministic heuristic evaluators
// run instead.
func buildPipeline(cfg application.AppConfig, logger *slog.Logger, collector ports.MetricsCollector) (*application.Pipeline, error) {
	var (
		set []ports.SignalEvaluator
		err error
	)

	if cfg.LLM.Provider == "" {
		logger.Info("no LLM provider configured, using heuristic evaluators")
		set = evaluators.NewHeuristicSet()
	} else {
		client, cerr := buildLLMClient(cfg, collector)
		if cerr != nil {
			return nil, cerr
		}
		set, err = evaluators.NewLLMSet(client, evaluators.DefaultLLMConfig())
		if err != nil {
			return nil, err
		}
		if cfg.LLM.RequestsPerSecond > 0 {
			set = middleware.RateLimitAll(set, cfg.LLM.RequestsPerSecond, len(set))
		}
	}
	set = middleware.TraceAll(set, serviceName)

	return application.NewPipeline(application.Config{
		Evaluators: set,
		Guardrail:  cfg.Guardrail,
		Triage:     cfg.Triage,
		Pricing:    cfg.Pricing,
		Logger:     logger,
		Collector:  collector,
	})
}

func buildLLMClient(cfg application.AppConfig, collector ports.MetricsCollector) (ports.LLMClient, error) {
	apiKey := cfg.LLM.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("LLM provider %q configured but %s is not set",
			cfg.LLM.Provider, cfg.LLM.APIKeyEnv)
	}

	mw := []llm.Middleware{
		llm.TracingMiddleware(serviceName),
		llm.CircuitBreakerMiddleware(5, 30*time.Second),
		llm.RetryMiddleware(2, 500*time.Millisecond, 5*time.Second),
		llm.TimeoutMiddleware(cfg.LLM.Timeout()),
	}
	if collector != nil {
		mw = append([]llm.Middleware{llm.MetricsMiddleware(collector)}, mw...)
	}
	if cfg.LLM.RequestsPerSecond > 0 {
		mw = append(mw, llm.RateLimitMiddleware(rate.Limit(cfg.LLM.RequestsPerSecond), 10))
	}

	model := cfg.LLM.Model
	if model == "" {
		switch cfg.LLM.Provider {
		case "openai":
			model = llm.OpenAIDefaultModel
		case "anthropic":
			model = llm.AnthropicDefaultModel
		case "google":
			model = llm.GoogleDefaultModel
		}
	}

	return llm.NewClient(cfg.LLM.Provider, llm.ClientConfig{
		APIKey:         apiKey,
		Model:          model,
		Timeout:        cfg.LLM.Timeout(),
		TokenEstimator: llm.NewCachingTokenEstimator(llm.NewWordBasedTokenEstimator(0.75), 1000),
		Middleware:     mw,
	})
}
