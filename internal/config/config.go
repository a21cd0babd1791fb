// Package config loads the colmap YAML configuration.
//
// Example:
//
//	log:
//	  level: info
//	engine:
//	  strict: false
//	  numberCast: notation
//	connections:
//	  source:
//	    type: oracle
//	    dsn: oracle://hr:${ORA_PASSWORD}@db:1521/ORCL
//	  target:
//	    type: postgres
//	    dsn: postgres://app@pg:5432/app
//	server:
//	  addr: ":8080"
//	archive:
//	  enabled: true
//	  endpoint: localhost:9000
//	  bucket: colmap
//
// ${VAR} references are expanded from the environment before parsing.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsarwari/pgCompare/internal/database"
	"github.com/fsarwari/pgCompare/internal/engine"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/filestore"
	"github.com/fsarwari/pgCompare/internal/logger"
	"go.yaml.in/yaml/v3"
)

type Config struct {
	Log         LogConfig                   `yaml:"log"`
	Engine      EngineConfig                `yaml:"engine"`
	Connections map[string]ConnectionConfig `yaml:"connections"`
	Server      ServerConfig                `yaml:"server"`
	Archive     ArchiveConfig               `yaml:"archive"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type EngineConfig struct {
	Strict               bool   `yaml:"strict"`
	NumberCast           string `yaml:"numberCast"`
	StandardNumberFormat string `yaml:"standardNumberFormat"`
}

// ConnectionConfig is one named role. Type is both the driver used to
// connect and the engine whose value expressions the role receives.
type ConnectionConfig struct {
	Type           string        `yaml:"type"`
	DSN            string        `yaml:"dsn"`
	MaxConns       int32         `yaml:"maxConns"`
	MinConns       int32         `yaml:"minConns"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	QueryTimeout   time.Duration `yaml:"queryTimeout"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// LoadConfig reads, expands and validates the file at path.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "config path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrKindNotFound, "config file not found", err)
		}
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "read config file", err)
	}

	return Parse(data)
}

// Parse expands and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "parse config", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Engine.NumberCast == "" {
		c.Engine.NumberCast = engine.NumberCastNotation
	}
	if c.Engine.StandardNumberFormat == "" {
		c.Engine.StandardNumberFormat = engine.DefaultStandardNumberFormat
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Archive.Provider == "" {
		c.Archive.Provider = string(filestore.ProviderMinIO)
	}
	if c.Archive.Bucket == "" {
		c.Archive.Bucket = "colmap"
	}
}

func (c *Config) validate() error {
	if len(c.Connections) == 0 {
		return errs.New(errs.ErrKindInvalidInput, "at least one connection is required")
	}
	for _, role := range c.Roles() {
		conn := c.Connections[role]
		if conn.Type == "" {
			return errs.Newf(errs.ErrKindInvalidInput, "connections.%s.type is required", role)
		}
		if _, err := engine.Parse(conn.Type); err != nil && c.Engine.Strict {
			return errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("connections.%s.type", role), err)
		}
		if conn.DSN == "" {
			return errs.Newf(errs.ErrKindInvalidInput, "connections.%s.dsn is required", role)
		}
	}

	if err := c.Engine.Options().Validate(); err != nil {
		return err
	}

	if c.Archive.Enabled {
		switch filestore.Provider(c.Archive.Provider) {
		case filestore.ProviderMinIO:
			if c.Archive.Endpoint == "" {
				return errs.New(errs.ErrKindInvalidInput, "archive.endpoint is required for the minio provider")
			}
		case filestore.ProviderMemory:
		default:
			return errs.Newf(errs.ErrKindInvalidInput, "archive.provider %q is not supported", c.Archive.Provider)
		}
	}
	return nil
}

// Roles returns the configured role names, sorted.
func (c *Config) Roles() []string {
	roles := make([]string, 0, len(c.Connections))
	for r := range c.Connections {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	return roles
}

// EngineFor returns the engine name configured for role, or "" when the
// role is not configured.
func (c *Config) EngineFor(role string) string {
	return strings.ToLower(strings.TrimSpace(c.Connections[role].Type))
}

// Database builds the connection settings for role.
func (c *Config) Database(role string) (*database.Config, error) {
	conn, ok := c.Connections[role]
	if !ok {
		return nil, errs.Newf(errs.ErrKindNotFound, "role %q is not configured", role)
	}
	e, err := engine.Parse(conn.Type)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, fmt.Sprintf("role %q cannot connect", role), err)
	}

	dbCfg := database.DefaultConfig(e.Driver(), conn.DSN)
	if conn.MaxConns > 0 {
		dbCfg.MaxConns = conn.MaxConns
	}
	if conn.MinConns > 0 {
		dbCfg.MinConns = conn.MinConns
	}
	if conn.ConnectTimeout > 0 {
		dbCfg.ConnectTimeout = conn.ConnectTimeout
	}
	if conn.QueryTimeout > 0 {
		dbCfg.QueryTimeout = conn.QueryTimeout
	}
	return dbCfg, nil
}

func (e EngineConfig) Options() engine.Options {
	return engine.Options{
		NumberCast:           e.NumberCast,
		StandardNumberFormat: e.StandardNumberFormat,
	}
}

func (l LogConfig) Logger() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	return cfg
}

func (a ArchiveConfig) Filestore() *filestore.Config {
	cfg := filestore.DefaultConfig(a.Endpoint, a.AccessKey, a.SecretKey)
	cfg.Provider = filestore.Provider(a.Provider)
	cfg.UseSSL = a.UseSSL
	cfg.Region = a.Region
	cfg.DefaultBucket = a.Bucket
	return cfg
}
