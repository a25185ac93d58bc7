// Command console is the client bootstrap: it wires the credential store,
// the HTTP client, the session engine, and the reconciliation coordinator
// against a running service, restores any persisted session (logging in with
// CONSOLE_USERNAME/CONSOLE_PASSWORD when there is none), and prints the
// franchise summaries.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/cfcastillo/go-franchise-client/api"
	"github.com/cfcastillo/go-franchise-client/franchises/treestore"
	"github.com/cfcastillo/go-franchise-client/internal/config"
	"github.com/cfcastillo/go-franchise-client/reconcile"
	"github.com/cfcastillo/go-franchise-client/session"
	"github.com/cfcastillo/go-franchise-client/session/filestore"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running console: %s\n", err)
	}
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
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	store, err := filestore.New(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("filestore.New %w", err)
	}
	client, err := api.New(c.GetBaseURL(), nil, api.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("api.New %w", err)
	}
	engine, err := session.NewEngine(store, client, session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("session.NewEngine %w", err)
	}
	client.SetTokenSource(engine)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := engine.Restore(); err != nil {
		logger.Warn().Err(err).Msg("stored session discarded")
	}
	if engine.State() == session.StateAnonymous {
		username := config.GetEnv("CONSOLE_USERNAME", "")
		password := config.GetEnv("CONSOLE_PASSWORD", "")
		if username == "" {
			return errors.New("no stored session; set CONSOLE_USERNAME and CONSOLE_PASSWORD")
		}
		if _, err := engine.Login(ctx, username, password); err != nil {
			return fmt.Errorf("engine.Login %w", err)
		}
	}

	coordinator, err := reconcile.New(treestore.New(), client, engine, reconcile.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("reconcile.New %w", err)
	}

	list, err := coordinator.LoadFranchises(ctx)
	if err != nil {
		return fmt.Errorf("coordinator.LoadFranchises %w", err)
	}
	for _, f := range list {
		logger.Info().Str("id", f.ID).Str("name", f.Name).Bool("active", f.Active).Msg("franchise")
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
