package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port                  string
	GoEnv                 string
	DatabaseURL           string
	GoogleCredentialsJSON string
	SpreadsheetName       string
	SheetItems            string
	SheetCustomers        string
	SheetCustomerMaster   string
	SheetBasic            string
	SheetCategories       string
	SheetPipes            string
	SheetDrawings         string
	SheetSales            string
	SheetContacts         string
	Auth0Domain           string
	Auth0Audience         string
	AWSRegion             string
	AWSS3Bucket           string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	LogLevel              string
}

var configInstance *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// If environment-specific file doesn't exist, try .env
		if err := godotenv.Load(); err != nil {
			// In production, environment variables are set directly
			// so it's okay if .env files don't exist
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		Port:                  getEnv("PORT", "3000"),
		GoEnv:                 getEnv("GO_ENV", "development"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		SpreadsheetName:       getEnv("SPREADSHEET_NAME", "QuoteVend"),
		SheetItems:            getEnv("SHEET_ITEMS", "ชีต1"),
		SheetCustomers:        getEnv("SHEET_CUSTOMERS", "ชีต2"),
		SheetCustomerMaster:   getEnv("SHEET_CUSTOMER_MASTER", "customer"),
		SheetBasic:            getEnv("SHEET_BASIC", "ชีต3"),
		SheetCategories:       getEnv("SHEET_CATEGORIES", "ชีต4"),
		SheetPipes:            getEnv("SHEET_PIPES", "pipe"),
		SheetDrawings:         getEnv("SHEET_DRAWINGS", "dwg"),
		SheetSales:            getEnv("SHEET_SALES", "sale"),
		SheetContacts:         getEnv("SHEET_CONTACTS", "contact"),
		Auth0Domain:           getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:         getEnv("AUTH0_AUDIENCE", ""),
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:           getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	configInstance = config
	return config, nil
}

// Validate checks that at least one row store backend is configured
func (c *Config) Validate() error {
	if c.GoogleCredentialsJSON == "" && c.DatabaseURL == "" && !c.IsTest() {
		return fmt.Errorf("either GOOGLE_CREDENTIALS_JSON or DATABASE_URL is required")
	}
	return nil
}

// UseSheetsBackend reports whether the Google Sheets row store should be used
func (c *Config) UseSheetsBackend() bool {
	return c.GoogleCredentialsJSON != ""
}

// AuthEnabled reports whether JWT validation is configured
func (c *Config) AuthEnabled() bool {
	return c.Auth0Domain != ""
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// GetConfig returns the loaded configuration instance
func GetConfig() *Config {
	return configInstance
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(c *Config) {
	configInstance = c
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
