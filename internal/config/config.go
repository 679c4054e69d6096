package config

import (
	"fmt"
	"os"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageDynamoDB = "dynamodb"
	StoragePostgres = "postgres"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Identity directory (Cognito user pool)
	UserPoolID string
	AWSRegion  string
	JWKSURL    string // Constructed from AWSRegion + UserPoolID
	Issuer     string

	// Policy store (Verified Permissions)
	PolicyStoreID string

	// Notebook storage
	StorageDriver  string // memory | dynamodb | postgres
	NotebooksTable string
	DatabaseURL    string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	region := getEnv("AWS_REGION", "us-east-1")
	poolID := getEnv("USER_POOL_ID", "")

	// Cognito publishes signing keys per user pool
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, poolID)
	jwksURL := issuer + "/.well-known/jwks.json"

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		UserPoolID: poolID,
		AWSRegion:  region,
		JWKSURL:    jwksURL,
		Issuer:     issuer,

		PolicyStoreID: getEnv("POLICY_STORE_ID", ""),

		StorageDriver:  getEnv("STORAGE_DRIVER", StorageMemory),
		NotebooksTable: getEnv("NOTEBOOKS_TABLE", "notebooks"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
