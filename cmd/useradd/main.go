// Package main creates back-office accounts, e.g. the first admin:
//
//	useradd -username admin -name "Administrador" -role admin
//
// The password is read from USERADD_PASSWORD, or prompted for on stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/asamblea-eventos/backend/config"
	"github.com/asamblea-eventos/backend/internal/auth"
	"github.com/asamblea-eventos/backend/pkg/database"
)

func main() {
	username := flag.String("username", "", "login name")
	fullName := flag.String("name", "", "full name")
	role := flag.String("role", "operador", "admin or operador")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	password := os.Getenv("USERADD_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			logger.Fatal("read password", zap.Error(err))
		}
		password = strings.TrimRight(line, "\r\n")
	}

	user, err := auth.NewUser(*username, password, *fullName, *role)
	if err != nil {
		logger.Fatal("invalid user", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), 2, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	if err := auth.NewRepository(pool).Create(ctx, user); err != nil {
		logger.Fatal("create user", zap.Error(err))
	}
	logger.Info("user created",
		zap.Int64("id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)
}
