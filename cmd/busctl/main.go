// busctl searches trips and books bus tickets from the terminal, using the
// same booking flow as the web frontend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/iliyamo/bus-booking-frontend/internal/apiclient"
	"github.com/iliyamo/bus-booking-frontend/internal/session"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

const usage = `usage: busctl [--api URL] [--token-file PATH] <command> [flags]

commands:
  login      log in and remember the session token
  logout     forget the session token
  register   create an account
  trips      list trips (--from, --to, --date)
  trip       show a trip and its seat map
  book       hold seats on a trip and pay (--seats A1,A2)
  ticket     show a ticket (--pdf FILE to save the e-ticket)
  history    list your bookings
`

// app is the state shared by subcommands.
type app struct {
	api    *apiclient.Client
	store  *session.Store
	out    io.Writer
	errOut io.Writer
	log    *slog.Logger
}

func defaultTokenFile() string {
	if v := os.Getenv("BUSCTL_TOKEN_FILE"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "busctl", "token")
}

func defaultAPI() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:5000/api"
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	var (
		apiURL    string
		tokenFile string
		timeout   time.Duration
		verbose   bool
	)
	global := pflag.NewFlagSet("busctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.SetOutput(errOut)
	global.StringVar(&apiURL, "api", defaultAPI(), "booking API base URL")
	global.StringVar(&tokenFile, "token-file", defaultTokenFile(), "where the session token is stored")
	global.DurationVar(&timeout, "timeout", 10*time.Second, "API request timeout")
	global.BoolVarP(&verbose, "verbose", "v", false, "log API activity to stderr")
	global.Usage = func() { fmt.Fprint(errOut, usage) }
	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return pflag.ErrHelp
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	store := session.NewStore(session.NewFileStorage(tokenFile), logger)
	// an unreadable token file leaves the session anonymous
	_ = store.Hydrate(ctx)
	a := &app{
		api:    apiclient.New(apiURL, store, apiclient.WithTimeout(timeout)),
		store:  store,
		out:    out,
		errOut: errOut,
		log:    logger,
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch strings.ToLower(cmd) {
	case "login":
		return a.login(ctx, cmdArgs)
	case "logout":
		return a.logout(ctx)
	case "register":
		return a.register(ctx, cmdArgs)
	case "trips":
		return a.trips(ctx, cmdArgs)
	case "trip":
		return a.trip(ctx, cmdArgs)
	case "book":
		return a.book(ctx, cmdArgs)
	case "ticket":
		return a.ticket(ctx, cmdArgs)
	case "history":
		return a.history(ctx)
	case "help":
		global.Usage()
		return nil
	}
	global.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}
