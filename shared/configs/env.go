package configs

import "os"

type Env struct {
	ListenAddr     string
	AllowedOrigins string
	GinMode        string
}

// Load reads the server settings from the environment. Call it after any
// dotenv loading has happened.
func Load() Env {
	return Env{
		ListenAddr:     getenv("LISTEN_ADDR", ":5000"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		GinMode:        os.Getenv("GIN_MODE"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
