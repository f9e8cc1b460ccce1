package recipesuggest

type ModelConfig struct {
	Provider    string  `env:"MODEL_PROVIDER,default=ollama"`
	ModelID     string  `env:"MODEL_ID,default=llama3.2"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=2048"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type AgentConfig struct {
	BaseOllamaEndpoint     string `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	BaseOpenRouterEndpoint string `env:"BASE_OPENROUTER_ENDPOINT,default=https://openrouter.ai/api/v1"`
	OpenRouterAPIKey       string `env:"OPENROUTER_API_KEY"`
	MockMode               string `env:"MOCK_MODE,default=json"`
	RunLogDir              string `env:"RUN_LOG_DIR"`
	TracingEnabled         bool   `env:"OTEL_ENABLED,default=false"`
	SlackWebhookURL        string `env:"SLACK_WEBHOOK_URL"`
	SlackChannel           string `env:"SLACK_CHANNEL,default=#cooking"`
}
