package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	HTTP      HTTPConfig      `yaml:"http"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Site      SiteConfig      `yaml:"site"`
	Files     FilesConfig     `yaml:"files"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Trackback TrackbackConfig `yaml:"trackback"`
	Kafka     KafkaConfig     `yaml:"kafka"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// SiteConfig carries the public address of the blog. BaseURL empty means the
// service runs without a routing context and permalinks use the generic
// /articles/read/{id} form.
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// FilesConfig locates media storage. Dir is the local storage root written
// by newMediaObject; PublicPath is the URL path it is served under.
type FilesConfig struct {
	Dir        string `yaml:"dir"`
	PublicPath string `yaml:"public_path"`
}

// DefaultsConfig holds the process-wide fallbacks applied when a client
// omits the corresponding MovableType flags. Injected into the service at
// construction rather than read from global state.
type DefaultsConfig struct {
	AllowComments int `yaml:"allow_comments"`
	AllowPings    int `yaml:"allow_pings"`
}

type TrackbackConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// KafkaConfig configures the lifecycle event bus. Empty brokers disable
// publishing entirely.
type KafkaConfig struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	c := defaultConfig()

	// load configuration file when present
	if data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE)); err == nil {
		if err := yaml.Unmarshal(data, &c); err != nil {
			panic(err)
		}
	}

	applyEnvOverrides(&c)
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func defaultConfig() AppConfig {
	return AppConfig{
		Logging:   LoggingConfig{Level: "info"},
		HTTP:      HTTPConfig{Addr: ":8080"},
		Mongo:     MongoConfig{Database: "typograph"},
		Files:     FilesConfig{Dir: "public/files", PublicPath: "/files"},
		Defaults:  DefaultsConfig{AllowComments: 1, AllowPings: 1},
		Trackback: TrackbackConfig{TimeoutSeconds: 5},
		Kafka:     KafkaConfig{Topic: "typograph.posts"},
	}
}

// applyEnvOverrides lets deployment environments override secrets and
// endpoints without editing config.yaml.
func applyEnvOverrides(c *AppConfig) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB_NAME"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("SITE_BASE_URL"); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv("FILES_DIR"); v != "" {
		c.Files.Dir = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = v
	}
	if v := os.Getenv("TRACKBACK_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Trackback.TimeoutSeconds = n
		}
	}
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
