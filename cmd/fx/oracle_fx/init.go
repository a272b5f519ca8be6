package oracle_fx

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	"tripforge/internal/services"
	"tripforge/pkg/utils"

	"go.uber.org/fx"
)

var Module = fx.Provide(
	ProvideItineraryOracle,
	ProvideEmbeddingClient,
	ProvideGenerationConfig)

// OracleConfig holds configuration for the content-generation oracle.
type OracleConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// ProvideItineraryOracle creates the oracle client based on environment
// variables. The openai provider with ORACLE_BASE_URL pointed at api.x.ai
// is the default production setup.
func ProvideItineraryOracle() (utils.ItineraryOracleInterface, error) {
	config := getOracleConfig()

	log.Printf("Initializing %s oracle client with model: %s", config.Provider, config.Model)

	oracle, err := utils.NewItineraryOracle(config.Provider, config.APIKey, config.BaseURL, config.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle client: %w", err)
	}
	return oracle, nil
}

// ProvideEmbeddingClient backs the catalog candidate lookup. Only OpenAI has
// a hosted embedding endpoint here, so it is used regardless of the oracle
// provider when a key is present.
func ProvideEmbeddingClient() utils.EmbeddingClientInterface {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("OPENAI_API_KEY not set; catalog candidate retrieval disabled")
		return nil
	}
	model := getEnvWithDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small")
	return utils.NewOpenAIEmbeddingClient(apiKey, model)
}

func ProvideGenerationConfig() services.GenerationConfig {
	alternatives := getEnvInt("ORACLE_ALTERNATIVES", 2)
	if alternatives < 1 {
		alternatives = 1
	}
	if alternatives > 5 {
		alternatives = 5
	}

	callTimeout := time.Duration(getEnvInt("ORACLE_TIMEOUT_SECONDS", 60)) * time.Second
	ceiling := time.Duration(getEnvInt("GENERATION_CEILING_SECONDS", 0)) * time.Second
	if ceiling <= 0 {
		ceiling = 3 * callTimeout
	}

	return services.GenerationConfig{
		Alternatives:   alternatives,
		CallTimeout:    callTimeout,
		Ceiling:        ceiling,
		ScoreThreshold: getEnvInt("SCORE_THRESHOLD", 70),
	}
}

// getOracleConfig reads configuration from environment variables.
func getOracleConfig() OracleConfig {
	provider := getEnvWithDefault("ORACLE_PROVIDER", "openai")

	var apiKey, model, baseURL string

	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("ORACLE_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		baseURL = getEnvWithDefault("ORACLE_BASE_URL", "https://api.x.ai/v1")
		model = getEnvWithDefault("ORACLE_MODEL", "grok-3")
		if apiKey == "" {
			log.Fatal("ORACLE_API_KEY is required when using the openai oracle provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using the gemini oracle provider")
		}
	}

	return OracleConfig{
		Provider: provider,
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Model:    model,
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Ignoring non-numeric %s=%q", key, value)
	}
	return defaultValue
}
