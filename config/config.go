package config

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server          Server
	Database        Database
	Cognito         Cognito
	GeminiApiKey    string
	AnthropicApiKey string
	DebugSQL        bool
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	URL      string // optional single-URL override
}

// Cognito holds the identity-provider settings used to validate bearer tokens.
type Cognito struct {
	Region      string
	UserPoolID  string
	AppClientID string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("COGNITO_REGION", "ap-northeast-1")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.URL = viper.GetString("DATABASE_URL")

	config.Cognito.Region = viper.GetString("COGNITO_REGION")
	config.Cognito.UserPoolID = viper.GetString("COGNITO_USER_POOL_ID")
	config.Cognito.AppClientID = viper.GetString("COGNITO_APP_CLIENT_ID")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.AnthropicApiKey = viper.GetString("ANTHROPIC_API_KEY")
	config.DebugSQL = viper.GetBool("DEBUG_SQL")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}

// DSN builds the postgres connection string, preferring DATABASE_URL when set.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// JWKSEndpoint is the well-known URL publishing the user pool's signing keys.
func (c Cognito) JWKSEndpoint() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", c.Region, c.UserPoolID)
}

// Issuer is the expected `iss` claim for tokens minted by the user pool.
func (c Cognito) Issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}
