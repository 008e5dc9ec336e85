package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	JWTSecret string
	TokenTTL  time.Duration
	LogFile   string
	ProbeAddr string
}

func Load() Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "drivenext.db" // sqlite file in project root
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
		log.Println("[config] JWT_SECRET not set, using dev default")
	}
	ttl := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}
	logFile := os.Getenv("LOG_FILE")
	probe := os.Getenv("PROBE_ADDR")
	if probe == "" {
		probe = "1.1.1.1:443"
	}

	cfg := Config{Port: port, DBDSN: dsn, JWTSecret: secret, TokenTTL: ttl, LogFile: logFile, ProbeAddr: probe}
	log.Printf("[config] PORT=%s DB_DSN=%s TOKEN_TTL=%s PROBE_ADDR=%s", cfg.Port, cfg.DBDSN, cfg.TokenTTL, cfg.ProbeAddr)
	return cfg
}
