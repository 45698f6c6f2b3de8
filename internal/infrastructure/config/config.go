package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"blaze/internal/domain/entities"
	valueobjects "blaze/internal/domain/value_objects"

	"github.com/joho/godotenv"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "internal/adapters/outbound/persistence/postgresql/migrations"
	defaultChainTimeout             = 5 * time.Second
	defaultSignerTimeout            = 2 * time.Minute
	defaultFaucetToken              = "WELSH"
	defaultFaucetAmount             = "1000"
	defaultKafkaTopic               = "blaze-balance-updates"
	defaultSettlerBatchSize         = 1
	defaultSettlerPollInterval      = 30 * time.Second
	defaultLogLevel                 = "info"
	defaultLogFormat                = "json"
)

const (
	tokenRegistryEnv = "TOKEN_REGISTRY_JSON"
	swapRoutesEnv    = "SWAP_ROUTES_JSON"
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type Config struct {
	Port                     string
	OpenAPISpecPath          string
	ShutdownTimeout          time.Duration
	DatabaseURL              string
	DatabaseTarget           string
	DBReadinessTimeout       time.Duration
	DBReadinessRetryInterval time.Duration
	MigrationsPath           string

	Network      valueobjects.Network
	ChainAPIURL  string
	ChainAPIKey  string
	ChainTimeout time.Duration

	SignerRelayURL        string
	SignerRelayHMACSecret string
	SignerTimeout         time.Duration
	AllowModeEnabled      bool

	FaucetEnabled bool
	FaucetToken   string
	FaucetAmount  string

	KafkaBrokers      []string
	KafkaBalanceTopic string

	SettlerEnabled      bool
	SettlerBatchSize    int
	SettlerPollInterval time.Duration

	StreamAllowedOrigins []string
	TokenDefinitions     []entities.TokenDefinition
	SwapRouteDefinitions []entities.SwapRouteDefinition

	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) *ConfigError {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return &ConfigError{
				Code:     "CONFIG_DOTENV_INVALID",
				Message:  "failed to load env file",
				Metadata: map[string]string{"path": path, "error": err.Error()},
			}
		}
	}

	return nil
}

func LoadConfig() (Config, *ConfigError) {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_DATABASE_URL_REQUIRED",
			Message: "DATABASE_URL is required",
		}
	}

	databaseTarget, cfgErr := parseDatabaseTarget(databaseURL)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	network, cfgErr := loadNetwork()
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	chainAPIURL := strings.TrimRight(envOrDefault("HIRO_API_URL", network.DefaultAPIBaseURL()), "/")
	if cfgErr := validateHTTPURL("HIRO_API_URL", chainAPIURL); cfgErr != nil {
		return Config{}, cfgErr
	}
	chainTimeout, cfgErr := durationEnv("HIRO_API_TIMEOUT", defaultChainTimeout)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	signerRelayURL := strings.TrimSpace(os.Getenv("SIGNER_RELAY_URL"))
	signerSecret := strings.TrimSpace(os.Getenv("SIGNER_RELAY_HMAC_SECRET"))
	if signerRelayURL != "" {
		if cfgErr := validateHTTPURL("SIGNER_RELAY_URL", signerRelayURL); cfgErr != nil {
			return Config{}, cfgErr
		}
		if signerSecret == "" {
			return Config{}, &ConfigError{
				Code:    "CONFIG_SIGNER_RELAY_HMAC_SECRET_REQUIRED",
				Message: "SIGNER_RELAY_HMAC_SECRET is required when SIGNER_RELAY_URL is set",
			}
		}
	}
	signerTimeout, cfgErr := durationEnv("SIGNER_RELAY_TIMEOUT", defaultSignerTimeout)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	allowMode, cfgErr := boolEnv("ALLOW_MODE_ENABLED", false)
	if cfgErr != nil {
		return Config{}, cfgErr
	}
	faucetEnabled, cfgErr := boolEnv("FAUCET_ENABLED", false)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	settlerEnabled, cfgErr := boolEnv("SETTLER_ENABLED", signerRelayURL != "")
	if cfgErr != nil {
		return Config{}, cfgErr
	}
	if settlerEnabled && signerRelayURL == "" {
		return Config{}, &ConfigError{
			Code:    "CONFIG_SETTLER_SIGNER_REQUIRED",
			Message: "SIGNER_RELAY_URL is required when SETTLER_ENABLED is true",
		}
	}
	settlerBatchSize, cfgErr := positiveIntEnv("SETTLER_BATCH_SIZE", defaultSettlerBatchSize)
	if cfgErr != nil {
		return Config{}, cfgErr
	}
	settlerPollInterval, cfgErr := durationEnv("SETTLER_POLL_INTERVAL", defaultSettlerPollInterval)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	tokenDefinitions, cfgErr := loadTokenDefinitions()
	if cfgErr != nil {
		return Config{}, cfgErr
	}
	swapRoutes, cfgErr := loadSwapRouteDefinitions()
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	logLevel := strings.ToLower(envOrDefault("LOG_LEVEL", defaultLogLevel))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, &ConfigError{
			Code:     "CONFIG_LOG_LEVEL_INVALID",
			Message:  "LOG_LEVEL must be one of debug, info, warn, error",
			Metadata: map[string]string{"value": logLevel},
		}
	}
	logFormat := strings.ToLower(envOrDefault("LOG_FORMAT", defaultLogFormat))
	if logFormat != "json" && logFormat != "console" {
		return Config{}, &ConfigError{
			Code:     "CONFIG_LOG_FORMAT_INVALID",
			Message:  "LOG_FORMAT must be json or console",
			Metadata: map[string]string{"value": logFormat},
		}
	}

	return Config{
		Port:                     envOrDefault("PORT", defaultPort),
		OpenAPISpecPath:          envOrDefault("OPENAPI_SPEC_PATH", defaultOpenAPISpec),
		ShutdownTimeout:          defaultShutdownTimeout,
		DatabaseURL:              databaseURL,
		DatabaseTarget:           databaseTarget,
		DBReadinessTimeout:       defaultDBReadinessTimeout,
		DBReadinessRetryInterval: defaultDBReadinessRetryInterval,
		MigrationsPath:           envOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
		Network:                  network,
		ChainAPIURL:              chainAPIURL,
		ChainAPIKey:              strings.TrimSpace(os.Getenv("HIRO_API_KEY")),
		ChainTimeout:             chainTimeout,
		SignerRelayURL:           signerRelayURL,
		SignerRelayHMACSecret:    signerSecret,
		SignerTimeout:            signerTimeout,
		AllowModeEnabled:         allowMode,
		FaucetEnabled:            faucetEnabled,
		FaucetToken:              envOrDefault("FAUCET_TOKEN", defaultFaucetToken),
		FaucetAmount:             envOrDefault("FAUCET_AMOUNT", defaultFaucetAmount),
		KafkaBrokers:             splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaBalanceTopic:        envOrDefault("KAFKA_BALANCE_TOPIC", defaultKafkaTopic),
		SettlerEnabled:           settlerEnabled,
		SettlerBatchSize:         settlerBatchSize,
		SettlerPollInterval:      settlerPollInterval,
		StreamAllowedOrigins:     splitList(os.Getenv("STREAM_ALLOWED_ORIGINS")),
		TokenDefinitions:         tokenDefinitions,
		SwapRouteDefinitions:     swapRoutes,
		LogLevel:                 logLevel,
		LogFormat:                logFormat,
	}, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func loadNetwork() (valueobjects.Network, *ConfigError) {
	raw := envOrDefault("STACKS_NETWORK", string(valueobjects.NetworkMainnet))
	network, appErr := valueobjects.ParseNetwork(raw)
	if appErr != nil {
		return "", &ConfigError{
			Code:     "CONFIG_STACKS_NETWORK_INVALID",
			Message:  "STACKS_NETWORK must be mainnet or testnet",
			Metadata: map[string]string{"value": raw},
		}
	}
	return network, nil
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}

func validateHTTPURL(name, raw string) *ConfigError {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return &ConfigError{
			Code:     "CONFIG_URL_INVALID",
			Message:  name + " must be an absolute http(s) URL",
			Metadata: map[string]string{"name": name},
		}
	}
	return nil
}

func loadTokenDefinitions() ([]entities.TokenDefinition, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(tokenRegistryEnv))
	if raw == "" {
		return entities.DefaultTokenDefinitions(), nil
	}

	definitions := []entities.TokenDefinition{}
	if err := json.Unmarshal([]byte(raw), &definitions); err != nil {
		return nil, &ConfigError{
			Code:     "CONFIG_TOKEN_REGISTRY_INVALID",
			Message:  tokenRegistryEnv + " must be a JSON array of token definitions",
			Metadata: map[string]string{"error": err.Error()},
		}
	}
	if len(definitions) == 0 {
		return nil, &ConfigError{
			Code:    "CONFIG_TOKEN_REGISTRY_EMPTY",
			Message: tokenRegistryEnv + " must define at least one token",
		}
	}
	if _, appErr := entities.NewTokenRegistry(definitions); appErr != nil {
		return nil, &ConfigError{
			Code:     "CONFIG_TOKEN_REGISTRY_INVALID",
			Message:  appErr.Message,
			Metadata: map[string]string{"code": appErr.Code},
		}
	}

	return definitions, nil
}

func loadSwapRouteDefinitions() ([]entities.SwapRouteDefinition, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(swapRoutesEnv))
	if raw == "" {
		return entities.DefaultSwapRouteDefinitions(), nil
	}

	definitions := []entities.SwapRouteDefinition{}
	if err := json.Unmarshal([]byte(raw), &definitions); err != nil {
		return nil, &ConfigError{
			Code:     "CONFIG_SWAP_ROUTES_INVALID",
			Message:  swapRoutesEnv + " must be a JSON array of swap routes",
			Metadata: map[string]string{"error": err.Error()},
		}
	}
	for _, definition := range definitions {
		if _, appErr := entities.NewSwapRoute(definition); appErr != nil {
			return nil, &ConfigError{
				Code:     "CONFIG_SWAP_ROUTES_INVALID",
				Message:  appErr.Message,
				Metadata: map[string]string{"code": appErr.Code},
			}
		}
	}

	return definitions, nil
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func boolEnv(name string, fallback bool) (bool, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ConfigError{
			Code:     "CONFIG_BOOL_INVALID",
			Message:  name + " must be a boolean",
			Metadata: map[string]string{"name": name, "value": raw},
		}
	}
	return parsed, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "CONFIG_DURATION_INVALID",
			Message:  name + " must be a positive duration such as 30s",
			Metadata: map[string]string{"name": name, "value": raw},
		}
	}
	return parsed, nil
}

func positiveIntEnv(name string, fallback int) (int, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, &ConfigError{
			Code:     "CONFIG_INT_INVALID",
			Message:  name + " must be a positive integer",
			Metadata: map[string]string{"name": name, "value": raw},
		}
	}
	return parsed, nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
