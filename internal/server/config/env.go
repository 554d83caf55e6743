package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/campusevents/internal/flagx"
	"github.com/dmitrijs2005/campusevents/internal/timex"
	"github.com/joho/godotenv"
)

// lookupEnv is a seam for tests.
var lookupEnv = os.LookupEnv

// parseEnv overlays Config with environment variables. When -env/-envfile is
// given that file is loaded first (and must exist); otherwise a .env file in
// the working directory is loaded if present. Variables already set in the
// process environment are never overwritten by the file.
//
// Recognized variables:
//
//	PORT                 listen port, becomes ":<PORT>"
//	HTTP_ADDRESS         full listen address, wins over PORT
//	DATABASE_URL         PostgreSQL DSN
//	JWT_SECRET           token signing secret
//	JWT_EXPIRES_IN       token lifetime ("7d", "168h", seconds)
//	BCRYPT_COST          bcrypt work factor
//	ALLOW_ADMIN_SIGNUP   true/false
//	CORS_ALLOW_ORIGINS   comma-separated origins
//	DB_MAX_OPEN_CONNS    pool size
//	LOG_LEVEL            debug|info|warn|error
//	SHUTDOWN_TIMEOUT     graceful shutdown period
//
// Malformed values panic, the same way a broken JSON config does.
func parseEnv(config *Config) {
	loadEnvFile(flagx.EnvFileFlags())

	if v, ok := lookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := lookupEnv("HTTP_ADDRESS"); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := lookupEnv("DATABASE_URL"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookupEnv("JWT_SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookupEnv("JWT_EXPIRES_IN"); ok && v != "" {
		config.TokenValidityDuration = mustDuration("JWT_EXPIRES_IN", v)
	}
	if v, ok := lookupEnv("BCRYPT_COST"); ok && v != "" {
		config.BcryptCost = mustInt("BCRYPT_COST", v)
	}
	if v, ok := lookupEnv("ALLOW_ADMIN_SIGNUP"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic("ALLOW_ADMIN_SIGNUP: " + err.Error())
		}
		config.AllowAdminSignup = b
	}
	if v, ok := lookupEnv("CORS_ALLOW_ORIGINS"); ok && v != "" {
		config.CORSAllowOrigins = splitList(v)
	}
	if v, ok := lookupEnv("DB_MAX_OPEN_CONNS"); ok && v != "" {
		config.DBMaxOpenConns = mustInt("DB_MAX_OPEN_CONNS", v)
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}
	if v, ok := lookupEnv("SHUTDOWN_TIMEOUT"); ok && v != "" {
		config.ShutdownTimeout = mustDuration("SHUTDOWN_TIMEOUT", v)
	}
}

func loadEnvFile(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func mustInt(name, v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return n
}

func mustDuration(name, v string) time.Duration {
	d, err := timex.ParseDuration(v)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
