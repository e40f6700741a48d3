package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"signup-service/internal/core/auth"
	"signup-service/internal/core/cache"
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
	issue := flag.Bool("issue-token", false, "print a signed operator token and exit")
	sub := flag.String("sub", "", "operator id for -issue-token")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}
	if *issue {
		os.Exit(issueToken(jwter, *sub))
	}

	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Filename)
	defer cleanup()
	if len(jwter.Secret) == 0 {
		log.Warn("jwt.secret empty: every /admin/v1 request will be rejected")
	}

	db := openDB(cfg, log)
	accounts := repo.NewAccountRepo(db)

	// Redis 可选：未配置时统计直接查库
	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "signup:")
	if c != nil {
		defer c.Close()
	}

	classifier := response.NewClassifier(cfg.Environment(), log)
	adminH := handler.NewAdminHandler(service.NewAccountService(accounts, c, 30*time.Second))
	r := router.NewAdminEngine(log, router.Options{
		MaxConcurrent:  cfg.App.HTTP.MaxConcurrent,
		MaxBodyBytes:   cfg.App.HTTP.MaxBodyBytes,
		RequestTimeout: time.Duration(cfg.App.HTTP.RequestTimeoutSec) * time.Second,
	}, adminH, jwter, classifier)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	closeDB(db)
	log.Info("admin api stopped gracefully")
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func issueToken(j *auth.JWTer, sub string) int {
	if sub == "" {
		fmt.Fprintln(os.Stderr, "-sub is required")
		return 2
	}
	tok, err := j.Issue(sub, router.RoleOperator)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		return 1
	}
	fmt.Println(tok)
	return 0
}

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
		l.Warn("database unavailable", zap.Error(err))
		return nil
	}
	return db
}
