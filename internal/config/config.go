package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	FrontendURL  string `mapstructure:"FRONTEND_URL"`

	DifyAPIBaseURL     string `mapstructure:"DIFY_API_BASE_URL"`
	DifyAPIKey         string `mapstructure:"DIFY_API_KEY"`
	DifyTimeoutSeconds int    `mapstructure:"DIFY_TIMEOUT_SECONDS"`

	OAuthClientID     string `mapstructure:"OAUTH_CLIENT_ID"`
	OAuthClientSecret string `mapstructure:"OAUTH_CLIENT_SECRET"`
	OAuthRedirectURL  string `mapstructure:"OAUTH_REDIRECT_URL"`
	OAuthAuthURL      string `mapstructure:"OAUTH_AUTH_URL"`
	OAuthTokenURL     string `mapstructure:"OAUTH_TOKEN_URL"`
	OAuthUserInfoURL  string `mapstructure:"OAUTH_USERINFO_URL"`

	MinioEndpoint      string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey     string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey     string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL        bool   `mapstructure:"MINIO_USE_SSL"`
	ImageBucket        string `mapstructure:"IMAGE_BUCKET"`
	ImagePublicBaseURL string `mapstructure:"IMAGE_PUBLIC_BASE_URL"`

	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "urushiri.db")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:3000")
	viper.SetDefault("DIFY_API_BASE_URL", "https://api.dify.ai")
	viper.SetDefault("DIFY_TIMEOUT_SECONDS", 75)
	viper.SetDefault("OAUTH_REDIRECT_URL", "http://127.0.0.1:8080/auth/oauth/callback")
	viper.SetDefault("OAUTH_AUTH_URL", "https://accounts.google.com/o/oauth2/auth")
	viper.SetDefault("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token")
	viper.SetDefault("OAUTH_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo")
	viper.SetDefault("IMAGE_BUCKET", "event-images")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("DIFY_API_BASE_URL")
	viper.BindEnv("DIFY_API_KEY")
	viper.BindEnv("DIFY_TIMEOUT_SECONDS")
	viper.BindEnv("OAUTH_CLIENT_ID")
	viper.BindEnv("OAUTH_CLIENT_SECRET")
	viper.BindEnv("OAUTH_REDIRECT_URL")
	viper.BindEnv("OAUTH_AUTH_URL")
	viper.BindEnv("OAUTH_TOKEN_URL")
	viper.BindEnv("OAUTH_USERINFO_URL")
	viper.BindEnv("MINIO_ENDPOINT")
	viper.BindEnv("MINIO_ACCESS_KEY")
	viper.BindEnv("MINIO_SECRET_KEY")
	viper.BindEnv("MINIO_USE_SSL")
	viper.BindEnv("IMAGE_BUCKET")
	viper.BindEnv("IMAGE_PUBLIC_BASE_URL")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
