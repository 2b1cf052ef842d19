package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	log "github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/postboard/internal/db"
)

// Auth modes for the secured list.
const (
	AuthStatic = "static"
	AuthBcrypt = "bcrypt"
	AuthJWT    = "jwt"
)

// DefaultSharedSecret is the token accepted by the secured list when no other
// secret is configured.
const DefaultSharedSecret = "secreto123"

// Config is the resolved server configuration.
type Config struct {
	Port string

	Store         string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration

	AuthMode       string
	AuthSecret     string
	AuthSecretHash string
	JWTSecret      string

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.Store, validation.Required,
			validation.In(string(db.BackendMongo), string(db.BackendPostgres), string(db.BackendMemory))),
		validation.Field(&c.MongoURI,
			validation.When(c.Store == string(db.BackendMongo), validation.Required)),
		validation.Field(&c.MongoDatabase,
			validation.When(c.Store == string(db.BackendMongo), validation.Required)),
		validation.Field(&c.DatabaseURL,
			validation.When(c.Store == string(db.BackendPostgres), validation.Required)),
		validation.Field(&c.AuthMode, validation.Required,
			validation.In(AuthStatic, AuthBcrypt, AuthJWT)),
		validation.Field(&c.AuthSecret,
			validation.When(c.AuthMode == AuthStatic, validation.Required)),
		validation.Field(&c.AuthSecretHash,
			validation.When(c.AuthMode == AuthBcrypt, validation.Required)),
		validation.Field(&c.JWTSecret,
			validation.When(c.AuthMode == AuthJWT, validation.Required)),
		validation.Field(&c.LogFormat, validation.In("text", "json")),
	)
}

// StoreOptions maps the configuration onto the store connection options.
func (c Config) StoreOptions() db.Options {
	return db.Options{
		Backend:        db.Backend(c.Store),
		MongoURI:       c.MongoURI,
		MongoDatabase:  c.MongoDatabase,
		DatabaseURL:    c.DatabaseURL,
		MaxOpen:        c.DBMaxOpen,
		MaxIdle:        c.DBMaxIdle,
		MaxLifetime:    c.DBMaxLifetime,
		ConnectTimeout: 30 * time.Second,
	}
}

// ConfigureLogging applies the level and format to the standard logrus logger.
func (c Config) ConfigureLogging() error {
	level := c.LogLevel
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log.SetLevel(lvl)

	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
