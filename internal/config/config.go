package config

import (
	"os"
	"time"
)

const (
	// RetentionDays is the inactivity threshold after which a chat group and
	// its messages are deleted by the sweeper.
	RetentionDays = 60

	// CleanupSchedule runs the sweeper every 2 months, at 02:00 on the 1st.
	CleanupSchedule = "0 2 1 */2 *"

	// RoomTitleCacheTTL bounds how long a room title served from Redis can
	// lag behind a rename in Postgres.
	RoomTitleCacheTTL = 10 * time.Minute
)

type Config struct {
	Port        string
	DatabaseDSN string
	RedisAddr   string
	Env         string
	JWTSecret   string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func Load() Config {
	return Config{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseDSN: getenv("DATABASE_DSN", "host=localhost user=user password=password dbname=chatpulse port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:   getenv("REDIS_ADDR", "localhost:6379"),
		Env:         getenv("APP_ENV", "dev"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret-change-me"),
	}
}
