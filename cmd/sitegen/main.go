package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	siteerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/server"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (SITEGEN_CONFIG overrides the default)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output   string `short:"o" help:"Output directory" default:"public"`
		Content  string `help:"Content directory" default:"content"`
		Drafts   bool   `help:"Include draft pages"`
		Clean    bool   `help:"Remove the output directory before building"`
		NoStrict bool   `help:"Do not fail the build on broken wiki links"`
	} `cmd:"" help:"Build the site"`

	Serve struct {
		Output  string `short:"o" help:"Output directory to serve" default:"public"`
		Content string `help:"Content directory (watched)" default:"content"`
		Port    int    `short:"p" help:"Port to listen on" default:"8080"`
		Watch   bool   `short:"w" help:"Rebuild on content or config changes"`
		Drafts  bool   `help:"Include draft pages"`
	} `cmd:"" help:"Serve the built site for preview"`

	Check struct {
		Content string `help:"Content directory" default:"content"`
		Drafts  bool   `help:"Include draft pages"`
	} `cmd:"" help:"Resolve and transform everything without writing output"`

	Init struct {
		Force bool `help:"Overwrite existing files"`
	} `cmd:"" help:"Scaffold a new site in the current directory"`
}

func main() {
	kctx := kong.Parse(&CLI)

	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "build":
		err = runBuild(ctx)
	case "serve":
		err = runServe(ctx)
	case "check":
		err = runCheck(ctx)
	case "init":
		err = config.Scaffold(".", CLI.Init.Force)
	default:
		err = siteerrors.New(siteerrors.CategoryInternal, siteerrors.SeverityFatal,
			"unknown command: "+kctx.Command())
	}

	if err != nil {
		adapter := siteerrors.NewCLIErrorAdapter(CLI.Verbose)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(config.Path(CLI.Config))
}

func runBuild(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	builder := build.New(cfg, build.Options{
		ContentDir:    CLI.Build.Content,
		OutputDir:     CLI.Build.Output,
		IncludeDrafts: CLI.Build.Drafts,
		Clean:         CLI.Build.Clean,
		Strict:        !CLI.Build.NoStrict,
	})
	_, err = builder.Run(ctx)
	return err
}

func runCheck(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	builder := build.New(cfg, build.Options{
		ContentDir:    CLI.Check.Content,
		IncludeDrafts: CLI.Check.Drafts,
	})
	report, err := builder.Check(ctx)
	if err != nil {
		return err
	}
	slog.Info("Check complete",
		"pages", report.Pages,
		"projects", report.Projects,
		"publications", report.Publications,
		"warnings", len(report.Warnings))
	if len(report.Warnings) > 0 {
		return siteerrors.New(siteerrors.CategoryContent, siteerrors.SeverityError,
			fmt.Sprintf("%d warning(s) found", len(report.Warnings)))
	}
	return nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := build.Options{
		ContentDir:    CLI.Serve.Content,
		OutputDir:     CLI.Serve.Output,
		IncludeDrafts: CLI.Serve.Drafts,
		Clean:         true,
	}
	builder := build.New(cfg, opts)
	if _, err := builder.Run(ctx); err != nil {
		return err
	}

	if CLI.Serve.Watch {
		go func() {
			watched := []string{CLI.Serve.Content, "static", "assets", config.Path(CLI.Config)}
			err := server.Watch(ctx, watched, func() {
				// Config may have changed; reload it for the rebuild.
				fresh, err := loadConfig()
				if err != nil {
					slog.Error("Rebuild skipped: configuration invalid", "error", err)
					return
				}
				if _, err := build.New(fresh, opts).Run(ctx); err != nil {
					slog.Error("Rebuild failed", "error", err)
				}
			})
			if err != nil {
				slog.Error("Watcher stopped", "error", err)
			}
		}()
	}

	return server.New(server.Options{
		Addr: fmt.Sprintf(":%d", CLI.Serve.Port),
		Dir:  CLI.Serve.Output,
	}).Run(ctx)
}
