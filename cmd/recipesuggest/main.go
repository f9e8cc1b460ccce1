package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"recipesuggest"
	"recipesuggest/agent/bedrock"
	"recipesuggest/agent/mock"
	"recipesuggest/agent/ollama"
	"recipesuggest/agent/openrouter"
	"recipesuggest/ingredient"
	"recipesuggest/notify"
	"recipesuggest/output"
	"recipesuggest/recovery"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	ingredients string
	file        string
	numRecipes  int
	servings    int
	outputPath  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:           "recipesuggest",
		Short:         "Suggest recipes from a list of available ingredients",
		Long:          "recipesuggest sends your available ingredients to an LLM agent and writes a JSON array of recipe suggestions to a file.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ingredients, "ingredients", "i", "", "Comma- or newline-separated ingredient list (quoted).")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to a text or JSON file containing ingredients.")
	cmd.Flags().IntVarP(&opts.numRecipes, "recipes", "n", 3, "Number of recipe options to request.")
	cmd.Flags().IntVarP(&opts.servings, "servings", "s", 2, "Default servings for suggested recipes.")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "outputs.json", "Path of the JSON output file (always overwritten).")
	cmd.MarkFlagsMutuallyExclusive("ingredients", "file")
	cmd.MarkFlagsOneRequired("ingredients", "file")

	return cmd
}

func run(ctx context.Context, opts cliOptions) error {
	// A missing .env file is fine; env vars may come from the shell.
	_ = godotenv.Load()

	var modelConfig recipesuggest.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		return fmt.Errorf("SETUP: failed to decode model config: %w", err)
	}

	var agentConfig recipesuggest.AgentConfig
	if err := envdecode.Decode(&agentConfig); err != nil {
		return fmt.Errorf("SETUP: failed to decode agent config: %w", err)
	}

	ingredients, err := loadIngredients(opts)
	if err != nil {
		return err
	}
	slog.Info("SETUP: Parsed ingredients", "count", len(ingredients), "ingredients", ingredients)

	task, err := recipesuggest.TaskSpec{
		Ingredients: ingredients,
		NumRecipes:  opts.numRecipes,
		Servings:    opts.servings,
	}.BuildTask()
	if err != nil {
		return err
	}

	runLogger, cleanup, err := newRunLogger(agentConfig.RunLogDir, modelConfig.ModelID)
	if err != nil {
		return fmt.Errorf("SETUP: failed to create run logger: %w", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush run log", "error", err)
		}
	}()

	if agentConfig.TracingEnabled {
		_, _, otelShutdown, err := recipesuggest.InitOtel(ctx)
		if err != nil {
			return fmt.Errorf("SETUP: failed to initialize OpenTelemetry: %w", err)
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()
	}

	llm, err := newAgent(ctx, modelConfig, agentConfig)
	if err != nil {
		return fmt.Errorf("SETUP: failed to create LLM agent: %w", err)
	}

	raw, err := llm.Suggest(ctx, task)
	if err != nil {
		logRun(runLogger, recipesuggest.RunLog{Task: task, Error: err.Error()})
		return fmt.Errorf("FAILURE: error handling task: %w", err)
	}

	recovered := recovery.Recover(raw)
	logRun(runLogger, recipesuggest.RunLog{Task: task, RawOutput: raw, Recovered: recovered})

	sink := output.NewFileSink(opts.outputPath)
	if err := output.WriteRecovered(ctx, sink, recovered); err != nil {
		return fmt.Errorf("FAILURE: failed to write output: %w", err)
	}

	count, parsed := recipesuggest.CountValidRecipes(recovered)
	summary := notify.RunSummary(count, opts.outputPath, parsed)
	if !parsed {
		slog.Warn("RESULT: Model output was not recipe JSON; wrote diagnostic mapping", "path", opts.outputPath)
	}

	if agentConfig.SlackWebhookURL != "" {
		slackClient := notify.NewClient(agentConfig.SlackWebhookURL, http.DefaultClient)
		if err := slackClient.PostMessage(ctx, agentConfig.SlackChannel, summary); err != nil {
			slog.Error("RESULT: Failed to post summary to Slack", "error", err)
		}
	}

	fmt.Printf("✅ Output written to %s\n", opts.outputPath)
	return nil
}

func loadIngredients(opts cliOptions) ([]string, error) {
	if opts.file != "" {
		ingredients, err := ingredient.LoadFromFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("failed to load ingredients from %s: %w", opts.file, err)
		}
		return ingredients, nil
	}
	return ingredient.NormalizeText(opts.ingredients), nil
}

func newAgent(ctx context.Context, modelConfig recipesuggest.ModelConfig, agentConfig recipesuggest.AgentConfig) (recipesuggest.Agent, error) {
	profile := recipesuggest.NewChefProfile()

	switch modelConfig.Provider {
	case "ollama":
		return ollama.NewClient(ollama.ClientOpts{
			BaseEndpoint: agentConfig.BaseOllamaEndpoint,
			ModelID:      modelConfig.ModelID,
			Profile:      profile,
			Temperature:  modelConfig.Temperature,
			TopP:         modelConfig.TopP,
			HTTPClient:   http.DefaultClient,
		})

	case "openrouter":
		return openrouter.NewClient(openrouter.ClientOpts{
			BaseEndpoint: agentConfig.BaseOpenRouterEndpoint,
			APIKey:       agentConfig.OpenRouterAPIKey,
			ModelID:      modelConfig.ModelID,
			Profile:      profile,
			MaxTokens:    modelConfig.MaxTokens,
			Temperature:  modelConfig.Temperature,
			TopP:         modelConfig.TopP,
		})

	case "bedrock":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRetryMaxAttempts(5))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.ClientOpts{
			ModelID:     modelConfig.ModelID,
			Profile:     profile,
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		}), nil

	case "mock":
		return mock.NewClient(agentConfig.MockMode)

	default:
		return nil, fmt.Errorf("unknown model provider %q", modelConfig.Provider)
	}
}

func newRunLogger(dir, modelID string) (recipesuggest.RunLogger, func() error, error) {
	if dir == "" {
		return recipesuggest.NewNoOpRunLogger(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create run log dir: %w", err)
	}

	logFilePath := recipesuggest.NewRunLogFilePath(dir, modelID)
	logFile, err := os.OpenFile(filepath.Clean(logFilePath), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run log file: %w", err)
	}

	logger := recipesuggest.NewFileRunLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}

func logRun(logger recipesuggest.RunLogger, run recipesuggest.RunLog) {
	run.Timestamp = time.Now()
	if err := logger.LogRun(run); err != nil {
		slog.Error("Failed to log run", "error", err)
	}
}
