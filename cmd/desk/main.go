// desk is an interactive registration desk that talks to the proxy API.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	desk "eventDeskProxy/internal/modules/desk/domain"
	"eventDeskProxy/internal/modules/desk/infrastructure"
	"eventDeskProxy/internal/shared/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}

	var apiURL, erpOrigin, logLevel string
	var timeout time.Duration

	flagSet := pflag.NewFlagSet("desk", pflag.ContinueOnError)
	flagSet.StringVar(&apiURL, "api", envOr("DESK_API_URL", "http://127.0.0.1:3001"), "proxy base URL")
	flagSet.StringVar(&erpOrigin, "odoo-origin", envOr("ODOO_ORIGIN", desk.DefaultERPOrigin), "origin prefixed to relative ticket links")
	flagSet.DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	flagSet.StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	logger := logging.New(os.Stderr, logging.Config{Level: logLevel, Format: "text"})
	slog.SetDefault(logger)
	client := infrastructure.NewProxyClient(apiURL, erpOrigin, timeout, desk.NewSession()).WithLogger(logger)

	sh := newShell(client, os.Stdin, os.Stdout, logger)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		sh.password = terminalPassword
	}
	return sh.Run()
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: desk [flags]\n\nInteractive registration desk.\n\nFlags:\n")
	flagSet.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nCommands:\n%s", commandHelp)
}
