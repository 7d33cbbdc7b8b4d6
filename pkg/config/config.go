package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	FirebaseProject            string
	FirebaseApiKey             string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	StorageBucket              string

	StripeSecretKey string
	ClientBaseURL   string
	AllowedOrigin   string

	DefaultProfileImageURL string
	RedisURL               string
	RateLimitPerMinute     int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:             getEnv("FIREBASE_API_KEY", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		StorageBucket:              getEnv("STORAGE_BUCKET", ""),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		ClientBaseURL:   getEnv("CLIENT_BASE_URL", "http://localhost:3000"),
		AllowedOrigin:   getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DefaultProfileImageURL: getEnv("DEFAULT_PROFILE_IMAGE_URL", "/assets/default-profile.png"),
		RedisURL:               getEnv("REDIS_URL", ""),
		RateLimitPerMinute:     getEnvAsInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if config.FirebaseProject == "" {
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if config.StorageBucket == "" {
		config.StorageBucket = config.FirebaseProject + ".appspot.com"
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PostingsURL is where the checkout provider sends the buyer back to, on
// both success and cancel.
func (c *Config) PostingsURL() string {
	return c.ClientBaseURL + "/postings"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
