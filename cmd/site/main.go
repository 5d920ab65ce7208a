package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/lshoy/site/internal/domain/config"
	"github.com/lshoy/site/internal/export"
	"github.com/lshoy/site/internal/serve"
)

func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.Serve.Addr = addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := serve.New(cfg)
	defer s.Close()

	return s.ListenAndServe(ctx, cfg.Serve.Addr)
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b := &export.Builder{Cfg: cfg}
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	log.Printf("[export] wrote %d posts to %s", res.Posts, cfg.Content.ExportDir)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "site",
		Usage: "Markdown writings site: grouped, searchable articles from a directory of posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "site.yaml",
				Sources: cli.EnvVars("SITE_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the content API with live rebuild on change",
				Action: runServe,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides config)",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the computed dataset as JSON artifacts",
				Action: runExport,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
