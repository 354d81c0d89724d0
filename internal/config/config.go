package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string

	ServerPort string

	JWTSecret     string
	SessionMaxAge int

	RedisURL string

	MaxUploadSize int64
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:5000"
	}

	sessionMaxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || sessionMaxAge <= 0 {
		sessionMaxAge = 86400
	}

	maxUploadSize, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_SIZE"), 10, 64)
	if err != nil || maxUploadSize <= 0 {
		maxUploadSize = 8 * 1024 * 1024
	}

	return &Config{
		APIBaseURL: apiBaseURL,

		ServerPort: serverPort,

		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionMaxAge: sessionMaxAge,

		RedisURL: os.Getenv("REDIS_URL"),

		MaxUploadSize: maxUploadSize,
	}, nil
}
