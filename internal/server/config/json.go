package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/flagx"
	"github.com/dmitrijs2005/rpportal/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "15m" and integer nanoseconds are accepted. Pointer fields tell an
// absent key from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	SessionValidityDuration     *timex.Duration `json:"session_validity_duration"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	SiteURL                     *string         `json:"site_url"`
	StatusURL                   *string         `json:"status_url"`
	OTLPEndpoint                *string         `json:"otlp_endpoint"`
	LogLevel                    *string         `json:"log_level"`
	LoginMaxAttempts            *int            `json:"login_max_attempts"`
	LoginWindow                 *timex.Duration `json:"login_window"`
	LoginBlock                  *timex.Duration `json:"login_block"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config, if any, over config.
// Keys missing from the file keep their current values. An unreadable file
// or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
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
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.SiteURL, c.SiteURL)
	setString(&config.StatusURL, c.StatusURL)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.LoginMaxAttempts != nil {
		config.LoginMaxAttempts = *c.LoginMaxAttempts
	}

	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.SessionValidityDuration, c.SessionValidityDuration)
	setDuration(&config.LoginWindow, c.LoginWindow)
	setDuration(&config.LoginBlock, c.LoginBlock)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
