package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/bookshelf-service/internal/storage"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/Astemirdum/bookshelf-service/pkg/logger"
	"github.com/Astemirdum/bookshelf-service/pkg/postgres"

	"github.com/kelseyhightower/envconfig"
)

const EnvProduction = "production"

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type OAuth struct {
	ClientID     string `yaml:"clientID" envconfig:"OAUTH2_CLIENT_ID" required:"true"`
	ClientSecret string `yaml:"clientSecret" envconfig:"OAUTH2_CLIENT_SECRET" required:"true" json:"-"`
	Callback     string `yaml:"callback" envconfig:"OAUTH2_CALLBACK" required:"true"`
}

type Session struct {
	// Secret signs the session cookie. The cookie is signed, not encrypted.
	Secret string `yaml:"secret" envconfig:"SECRET" default:"keyboardcat" json:"-"`
}

type Config struct {
	Env      string         `yaml:"env" envconfig:"ENV" default:"development"`
	Project  string         `yaml:"project" envconfig:"PROJECT_ID" required:"true"`
	Server   HTTPServer     `yaml:"server"`
	Database postgres.DB    `yaml:"db"`
	Storage  storage.Config `yaml:"storage"`
	OAuth    OAuth          `yaml:"oauth"`
	Session  Session        `yaml:"session"`
	Kafka    kafka.Config   `yaml:"kafka"`
	Log      logger.Log     `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		if config.Env == EnvProduction && config.Database.InstanceConnectionName == "" {
			log.Fatal("NewConfig: INSTANCE_CONNECTION_NAME is required in production")
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
