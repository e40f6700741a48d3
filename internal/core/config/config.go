package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"

	"signup-service/internal/domain"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	// 单请求超时（含 DB 查询）
	RequestTimeoutSec int
	MaxConcurrent     int64
	MaxBodyBytes      int64
	CORSOrigins       []string `mapstructure:"cors_origins"`
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level    string
	JSON     bool
	Filename string // 非空时按 lumberjack 切割写文件
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Security struct {
	BcryptCost int
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Security Security
}

// Environment 只影响对外文案
func (c *Config) Environment() domain.Environment {
	e, _ := domain.ParseEnvironment(c.App.Env)
	return e
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "signup-service")
	v.SetDefault("app.env", string(domain.EnvDevelopment))
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.requesttimeoutsec", 10)
	v.SetDefault("app.http.maxconcurrent", 300)
	v.SetDefault("app.http.maxbodybytes", 1<<20)
	v.SetDefault("app.http.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.filename", "")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "signup-service")
	v.SetDefault("jwt.accesstokenttlmin", 60)

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("security.bcryptcost", 12)
}

// Load 读取配置，失败直接 Fatal
func Load(path string) *Config {
	c, err := LoadFrom(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

// LoadFrom reads yaml + APP_* env. A missing file is tolerated.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// 兼容常见部署平台的 DATABASE_URL
	_ = v.BindEnv("db.dsn", "APP_DB_DSN", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.DB.DSN = strings.TrimSpace(c.DB.DSN)
	if _, ok := domain.ParseEnvironment(c.App.Env); !ok {
		return nil, fmt.Errorf("app.env: unknown environment %q", c.App.Env)
	}
	return &c, nil
}
