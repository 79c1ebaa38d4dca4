package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zarlcorp/core/pkg/zapp"
	"github.com/zarlcorp/zfake/internal/cli"
	"github.com/zarlcorp/zfake/internal/config"
	"github.com/zarlcorp/zfake/internal/tui"
	"golang.org/x/term"
)

// version is set at build time via ldflags.
var version = "dev"

const usage = `usage: zfake [--config path] <command> [flags]

commands:
  name       print a random full name
  username   generate a username
  email      generate an email address
  password   generate a password
  persona    generate a complete persona
  check      validate an email, username or password
  version    print the version

run without a command to open the interactive UI`

func main() {
	app := zapp.New(zapp.WithName("zfake"))

	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	fs := flag.NewFlagSet("zfake", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (default: "+config.Path()+")")
	fs.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		_ = app.Close()
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "err", err)
		_ = app.Close()
		os.Exit(1)
	}
	setupLogging(os.Stderr, cfg)
	logConfigSource(cfg)

	if fs.NArg() > 0 {
		code := runCLI(ctx, cfg, fs.Arg(0), fs.Args()[1:])
		_ = app.Close()
		os.Exit(code)
	}

	if err := runTUI(cfg); err != nil {
		slog.Error("tui", "err", err)
		_ = app.Close()
		os.Exit(1)
	}

	if err := app.Close(); err != nil {
		slog.Error("shutdown", "err", err)
		os.Exit(1)
	}
}

func setupLogging(w io.Writer, cfg config.Config) {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))
}

// logConfigSource runs after setupLogging so debug lines honor log_level.
func logConfigSource(cfg config.Config) {
	if cfg.Source == "" {
		slog.Debug("no config file, using defaults", "path", config.Path())
		return
	}
	slog.Debug("loaded config", "path", cfg.Source)
}

func runCLI(_ context.Context, cfg config.Config, cmd string, args []string) int {
	var err error
	switch cmd {
	case "version":
		fmt.Printf("zfake %s\n", version)
	case "name":
		err = cli.CmdName(os.Stdout, cfg, args)
	case "username":
		err = cli.CmdUsername(os.Stdout, cfg, args)
	case "email":
		err = cli.CmdEmail(os.Stdout, cfg, args)
	case "password":
		err = cli.CmdPassword(os.Stdout, cfg, args)
	case "persona":
		err = cli.CmdPersona(os.Stdout, cfg, args)
	case "check":
		err = cli.CmdCheck(os.Stdout, cfg, args)
	case "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "zfake: unknown command %q\n", cmd)
		return 1
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrInvalid):
		// already reported on stdout
		return 1
	case errors.Is(err, flag.ErrHelp):
		return 0
	default:
		fmt.Fprintf(os.Stderr, "zfake: %v\n", err)
		return 1
	}
}

func runTUI(cfg config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("interactive mode needs a terminal; run zfake help for commands")
	}

	m := tui.New(version, cfg.NewGenerator(), cfg)
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
