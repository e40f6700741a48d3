package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"signup-service/internal/core/config"
	"signup-service/internal/core/database"
	"signup-service/internal/core/logger"
	"signup-service/internal/core/server"
	"signup-service/internal/repo"
	"signup-service/internal/service"
	"signup-service/internal/transport/http/handler"
	"signup-service/internal/transport/http/response"
	"signup-service/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Filename)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 数据库不可用时照常启动：请求按 500/503 分类返回
	db := openDB(cfg, log)
	accounts := repo.NewAccountRepo(db)
	if db != nil && cfg.DB.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := accounts.Migrate(ctx); err != nil {
			log.Warn("automigrate skipped", zap.Error(err))
		} else {
			log.Info("automigrate done")
		}
		cancel()
	}

	classifier := response.NewClassifier(cfg.Environment(), log)
	signupSvc := service.NewSignupService(accounts, service.BcryptHasher{Cost: cfg.Security.BcryptCost})
	signupH := handler.NewSignupHandler(signupSvc, classifier)

	r := router.NewAPIEngine(log, router.Options{
		CORSOrigins:    cfg.App.HTTP.CORSOrigins,
		MaxConcurrent:  cfg.App.HTTP.MaxConcurrent,
		MaxBodyBytes:   cfg.App.HTTP.MaxBodyBytes,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
	}, signupH, classifier)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("signup api starting",
		zap.String("env", string(cfg.Environment())),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("register", baseURL+"/api/register"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("signup api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	closeDB(db)
	log.Info("signup api stopped gracefully")
}

// openDB 返回 nil 表示未配置或配置无效
func openDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             l,
	})
	if err != nil {
		l.Warn("database unavailable, signup requests will fail until configured", zap.Error(err))
		return nil
	}
	l.Info("database pool ready", zap.String("driver", cfg.DB.Driver))
	return db
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
