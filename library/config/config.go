package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/library-management/library/internal/catalog"
	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/pkg/logger"
	"github.com/Astemirdum/library-management/pkg/postgres"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server   HTTPServer `yaml:"server"`
	Storage  string     `yaml:"storage" envconfig:"LIBRARY_STORAGE"`
	Database postgres.DB
	Kafka    kafka.Config
	Catalog  catalog.Config
	Log      logger.Log `yaml:"log"`
}

// UseMemory reports whether the in-memory store is selected.
func (c Config) UseMemory() bool {
	return c.Storage == StorageMemory
}

func (c Config) validate() error {
	switch c.Storage {
	case "", StoragePostgres, StorageMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
// Options are applied first, so variables that are set win over them.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		config, err := load(ops...)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func load(ops ...Option) (Config, error) {
	var config Config
	for _, op := range ops {
		op(&config)
	}
	if err := envconfig.Process("", &config); err != nil {
		return Config{}, err
	}
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func printConfig(cfg Config) {
	fmt.Println(dump(cfg))
}

// dump renders cfg without secrets.
func dump(cfg Config) string {
	jscfg, _ := jsoniter.MarshalIndent(cfg, "", "	") //nolint:errcheck
	return string(jscfg)
}
