// admin 命令行：初始化 super_admin 账号（company_id 为空的引导账号）
//
//	go run ./cmd/admin -email root@example.com -name "Super Admin"
//
// 密码取 -password，或环境变量 ADMIN_PASSWORD。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"company-staff-api/internal/core/auth"
	"company-staff-api/internal/core/config"
	"company-staff-api/internal/core/database"
	"company-staff-api/internal/core/logger"
	"company-staff-api/internal/domain"
	"company-staff-api/internal/repo"
	"company-staff-api/internal/service"
	"company-staff-api/internal/validation"
)

func main() {
	_ = godotenv.Load()

	name := flag.String("name", "Super Admin", "display name")
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "login password, defaults to $ADMIN_PASSWORD")
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	if err := run(cfg, log, *name, *email, *password); err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			log.Error("invalid input", zap.Any("errors", verr.Fields))
		} else {
			log.Error("seed super admin FAILED", zap.Error(err))
		}
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger, name, email, password string) error {
	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Username: cfg.DB.Username,
		Password: cfg.DB.Password,
		LogLevel: cfg.DB.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	store := repo.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 已存在则跳过，可重复执行
	existing, err := store.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role != domain.RoleSuperAdmin {
			return fmt.Errorf("user %s exists with role %s", email, existing.Role)
		}
		log.Info("super admin already exists", zap.Uint("user_id", existing.ID), zap.String("email", email))
		return nil
	}

	deps := service.Deps{
		Repos:     store.Repositories,
		Tx:        store,
		Validator: validation.New(validation.RepoLookup(store.Repositories)),
		Log:       log,
	}
	// 只用到 Register，不签发 token
	svc := service.NewAuthService(deps, &auth.JWTer{}, nil)
	u, err := svc.Register(ctx, &validation.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	log.Info("super admin created", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return nil
}
