package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/campusevents/internal/flagx"
	"github.com/dmitrijs2005/campusevents/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON configuration file.
// Durations use timex.Duration so both "168h"/"7d" strings and integer
// nanoseconds are accepted. Pointer fields distinguish "absent" from a zero
// value, so a partial file only overrides what it mentions.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	AllowAdminSignup      *bool           `json:"allow_admin_signup"`
	CORSAllowOrigins      []string        `json:"cors_allow_origins"`
	DBMaxOpenConns        *int            `json:"db_max_open_conns"`
	LogLevel              *string         `json:"log_level"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag into config. Without the flag nothing happens. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.AllowAdminSignup != nil {
		config.AllowAdminSignup = *c.AllowAdminSignup
	}
	if c.CORSAllowOrigins != nil {
		config.CORSAllowOrigins = c.CORSAllowOrigins
	}
	if c.DBMaxOpenConns != nil {
		config.DBMaxOpenConns = *c.DBMaxOpenConns
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
