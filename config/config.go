package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate fails fast on settings the process cannot run without.
func Validate() error {
	required := []string{
		"MONGO_URI",
		"DB_NAME",
		"JWT_SECRET",
		"MIDGATE_SERVER_KEY",
	}
	for _, key := range required {
		if os.Getenv(key) == "" {
			return fmt.Errorf("%s not set in environment", key)
		}
	}
	return nil
}
