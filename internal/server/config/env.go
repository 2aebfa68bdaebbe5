package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// postgresEnv is the docker-compose style split database settings. When
// DB_HOST is present they take over DatabaseDSN.
type postgresEnv struct {
	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"POSTGRES_DB"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
}

func (p postgresEnv) dsn() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// parseEnv loads envFile (or ./.env when envFile is empty and the file
// exists) into the process environment without overriding variables that
// are already set, then overlays environment variables onto config.
func parseEnv(config *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var pg postgresEnv
	if err := envconfig.Process("", &pg); err != nil {
		return fmt.Errorf("postgres env: %w", err)
	}
	if pg.Host != "" {
		config.DatabaseDSN = pg.dsn()
	}

	// envconfig only touches fields whose variables are set, so the
	// defaults already in config survive.
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}
