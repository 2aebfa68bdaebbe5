package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/salaries/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// both "30m" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	JWTAlgorithm                string         `json:"jwt_algorithm"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LogLevel                    string         `json:"log_level"`
	OTLPEndpoint                string         `json:"otlp_endpoint"`
	ServiceName                 string         `json:"service_name"`
}

// parseJson overlays the values present in the JSON file at path onto
// config. Empty path means there is nothing to load; zero values in the file
// leave the corresponding settings untouched.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIfNotEmpty(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfNotEmpty(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	setIfNotEmpty(&config.JWTAlgorithm, c.JWTAlgorithm)
	setIfNotEmpty(&config.LogLevel, c.LogLevel)
	setIfNotEmpty(&config.OTLPEndpoint, c.OTLPEndpoint)
	setIfNotEmpty(&config.ServiceName, c.ServiceName)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
