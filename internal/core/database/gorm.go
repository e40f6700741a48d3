package database

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"

	zlog "signup-service/internal/core/logger"
)

var (
	// ErrNotConfigured 未配置连接串：服务照常启动，需要 DB 的请求按配置错误处理
	ErrNotConfigured     = errors.New("database: connection string not configured")
	ErrUnsupportedDriver = errors.New("database: unsupported driver")
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	Logger             *zap.Logger // 为空时使用 gorm 默认 logger
}

// NewGorm 打开连接池但不主动连库：数据库未启动时服务仍可返回 503
func NewGorm(o Opts) (*gorm.DB, error) {
	if strings.TrimSpace(o.DSN) == "" {
		return nil, ErrNotConfigured
	}
	var dial gorm.Dialector
	switch o.Driver {
	case "", "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dsn, err := normalizeMySQLDSN(o.DSN, o.Username, o.Password)
		if err != nil {
			return nil, err
		}
		dial = gmysql.New(gmysql.Config{DSN: dsn, SkipInitializeWithVersion: true})
	default:
		return nil, ErrUnsupportedDriver
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:               gormLogger(o.Logger, o.LogLevel),
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)
	return db.Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true, // 只在需要时手动开 Tx
	}), nil
}

func gormLogger(l *zap.Logger, level string) logger.Interface {
	lvl := logger.Warn
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	if l == nil {
		return logger.Default.LogMode(lvl)
	}
	std, err := zlog.ToStdLogger(l.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		return logger.Default.LogMode(lvl)
	}
	return logger.New(std, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true, // 不把参数（含密码摘要）写进日志
	})
}

// normalizeMySQLDSN 支持 mysql:// 与 jdbc:mysql:// 形式，其余原样交给驱动
func normalizeMySQLDSN(input, userOverride, passOverride string) (string, error) {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return in, nil
	}
	u, err := url.Parse(in)
	if err != nil {
		return "", err
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	if userOverride != "" {
		cfg.User = userOverride
	}
	if passOverride != "" {
		cfg.Passwd = passOverride
	}
	q := u.Query()
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	if cs := q.Get("charset"); cs != "" {
		cfg.Params["charset"] = cs
	}
	if tz := q.Get("loc"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			cfg.Loc = loc
		}
	}
	return cfg.FormatDSN(), nil
}
