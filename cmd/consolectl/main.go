package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-console-client/internal/app"
	"github.com/samvad-hq/samvad-console-client/internal/config"
	"github.com/samvad-hq/samvad-console-client/internal/logger"
)

const usage = `usage: consolectl <command> [args]

commands:
  health              check backend liveness
  login <email> <pw>  obtain and store an access token
  me                  show the account behind the stored token
  test-token          validate the stored token
  logout              drop the stored token
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "consolectl failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console, err := app.New(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize console client", "error", err)
		return err
	}
	defer console.Close()

	switch cmd := os.Args[1]; cmd {
	case "health":
		ok, err := console.HealthCheck(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("backend healthy: %v\n", ok)
	case "login":
		if len(os.Args) != 4 {
			return fmt.Errorf("usage: consolectl login <email> <password>")
		}
		token, err := console.Login(ctx, os.Args[2], os.Args[3])
		if err != nil {
			return err
		}
		fmt.Printf("logged in (%s token stored for profile %q)\n", token.TokenType, cfg.Profile)
	case "me":
		user, err := console.CurrentUser(ctx)
		if err != nil {
			return err
		}
		printUser(user)
	case "test-token":
		user, err := console.TestToken(ctx)
		if err != nil {
			return err
		}
		fmt.Println("token valid")
		printUser(user)
	case "logout":
		if err := console.Logout(); err != nil {
			return err
		}
		fmt.Println("token removed")
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}

func printUser(u app.User) {
	fmt.Printf("id:        %s\n", u.ID)
	fmt.Printf("email:     %s\n", u.Email)
	if u.FullName != "" {
		fmt.Printf("name:      %s\n", u.FullName)
	}
	fmt.Printf("active:    %v\n", u.IsActive)
	fmt.Printf("superuser: %v\n", u.IsSuperuser)
}
