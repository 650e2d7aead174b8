package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/freshcart/auth-service/accounts"
	"github.com/freshcart/auth-service/googleauth"
	"github.com/freshcart/auth-service/internal/config"
	"github.com/freshcart/auth-service/server"
	"github.com/freshcart/auth-service/server/sessionstore"
	"github.com/freshcart/auth-service/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, cleanup, err := buildDeps(ctx, c)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := server.New(c, deps)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildDeps(ctx context.Context, c config.Config) (server.Deps, func(), error) {
	cleanup := func() {}

	secret := c.GetJWTSecret()
	if secret == "" {
		return server.Deps{}, cleanup, errors.New("JWT_SECRET is required")
	}

	var accountRepo accounts.Repo
	if dsn := c.GetDatabaseURL(); dsn != "" {
		pg, err := accounts.OpenPostgres(ctx, dsn)
		if err != nil {
			return server.Deps{}, cleanup, fmt.Errorf("accounts.OpenPostgres: %w", err)
		}
		accountRepo = pg
	} else {
		log.Printf("DATABASE_URL not set, using in-memory account store\n")
		accountRepo = accounts.NewInMemoryRepo()
	}

	var registry token.Registry
	if path := c.GetRevocationDBPath(); path != "" {
		boltRegistry, err := token.NewBoltRegistry(path)
		if err != nil {
			return server.Deps{}, cleanup, fmt.Errorf("token.NewBoltRegistry: %w", err)
		}
		cleanup = func() { _ = boltRegistry.Close() }
		registry = boltRegistry
	} else {
		registry = token.NewInMemoryRegistry()
	}
	token.StartSweeper(ctx, registry, c.GetBlacklistCleanupInterval())

	issuer := token.NewIssuer(secret,
		token.WithLifetime(c.GetTokenLifetime()),
		token.WithIssuer(c.GetBackendURL()),
		token.WithAudience(c.GetFrontendURL()),
	)

	bridge, err := googleauth.New(ctx,
		c.GetGoogleClientID(),
		c.GetGoogleClientSecret(),
		c.GetGoogleCallbackURL(),
	)
	if err != nil {
		return server.Deps{}, cleanup, fmt.Errorf("googleauth.New: %w", err)
	}

	return server.Deps{
		Accounts: accountRepo,
		Sessions: sessionstore.NewInMemoryRepo(),
		Registry: registry,
		Issuer:   issuer,
		Bridge:   bridge,
	}, cleanup, nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
