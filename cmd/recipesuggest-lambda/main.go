package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"recipesuggest"
	"recipesuggest/agent/bedrock"
	"recipesuggest/ingredient"
	"recipesuggest/output"
	"recipesuggest/recovery"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"
)

type Params struct {
	Ingredients string `json:"ingredients"`
	NumRecipes  int    `json:"num_recipes"`
	Servings    int    `json:"servings"`
}

type Results struct {
	Output any `json:"output"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig recipesuggest.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("OUTPUT_S3_BUCKET")
		s3Key := os.Getenv("OUTPUT_S3_KEY")
		if s3Bucket == "" || s3Key == "" {
			return Results{}, fmt.Errorf("missing S3 config: OUTPUT_S3_BUCKET and OUTPUT_S3_KEY must be set")
		}

		ingredients := ingredient.NormalizeText(params.Ingredients)
		slog.Info("SETUP: Parsed ingredients", "count", len(ingredients))

		task, err := recipesuggest.TaskSpec{
			Ingredients: ingredients,
			NumRecipes:  params.NumRecipes,
			Servings:    params.Servings,
		}.BuildTask()
		if err != nil {
			return Results{}, err
		}

		runLogger := recipesuggest.NewStdoutRunLogger()

		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}

		llm := bedrock.NewClient(bedrockruntime.NewFromConfig(awsCfg), bedrock.ClientOpts{
			ModelID:     modelConfig.ModelID,
			Profile:     recipesuggest.NewChefProfile(),
			MaxTokens:   modelConfig.MaxTokens,
			Temperature: modelConfig.Temperature,
			TopP:        modelConfig.TopP,
		})

		_, _, otelShutdown, err := recipesuggest.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return Results{}, err
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()

		raw, err := llm.Suggest(ctx, task)
		if err != nil {
			logRun(runLogger, recipesuggest.RunLog{Task: task, Error: err.Error()})
			slog.Error("RESULT: Error handling task", "error", err)
			return Results{}, err
		}

		recovered := recovery.Recover(raw)
		logRun(runLogger, recipesuggest.RunLog{Task: task, RawOutput: raw, Recovered: recovered})

		sink := output.NewS3Sink(s3.NewFromConfig(awsCfg), s3Bucket, s3Key)
		if err := output.WriteRecovered(ctx, sink, recovered); err != nil {
			return Results{}, fmt.Errorf("failed to write output to S3: %w", err)
		}
		slog.Info("RESULT: Output written to S3", "bucket", s3Bucket, "key", s3Key)

		return Results{Output: recovered}, nil
	}

	lambda.Start(fn)
}

func logRun(logger recipesuggest.RunLogger, run recipesuggest.RunLog) {
	run.Timestamp = time.Now()
	if err := logger.LogRun(run); err != nil {
		slog.Error("Failed to log run", "error", err)
	}
}
