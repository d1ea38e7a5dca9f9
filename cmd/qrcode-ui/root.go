package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Its-donkey/qrcode-creator/internal/config"
	"github.com/Its-donkey/qrcode-creator/internal/metadata"
	"github.com/Its-donkey/qrcode-creator/internal/metrics"
	"github.com/Its-donkey/qrcode-creator/internal/ui/qrcodes"
	uiserver "github.com/Its-donkey/qrcode-creator/internal/ui/server"
	"github.com/Its-donkey/qrcode-creator/logging"
)

const programName = "qrcode-ui"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const logFileName = "qrcode-ui.log"

func newRootCommand() *cobra.Command {
	var configFile string

	serve := serveCommand(&configFile)
	root := &cobra.Command{
		Use:          programName,
		Short:        "Serve the QR code creator UI",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a JSON or YAML config file")
	config.RegisterFlags(root.Flags())

	root.AddCommand(serve)
	root.AddCommand(versionCommand())
	return root
}

func serveCommand(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the UI server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runServe(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", programName, version)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	logger, closeLogs, err := newLogger(cfg, stdout)
	if err != nil {
		return err
	}
	defer closeLogs()

	m := metrics.New()
	backend := qrcodes.NewClient(qrcodes.Options{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Metrics: m,
	})
	fetcher := metadata.NewService(metadata.NewPublicClient(), cfg.Metadata.Timeout, logger)

	logger.Info("startup", "starting "+programName, map[string]any{
		"version": version,
		"listen":  cfg.Server.Listen,
		"backend": backend.BaseURL(),
	})

	err = uiserver.Run(ctx, uiserver.Options{
		Listen:       cfg.Server.Listen,
		TemplatesDir: cfg.App.Templates,
		AssetsDir:    cfg.App.Assets,
		SessionTTL:   cfg.Session.TTL,
		Backend:      backend,
		Metadata:     fetcher,
		Logger:       logger,
		Metrics:      m,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server", "server stopped", err, nil)
		return err
	}
	logger.Info("server", "shutdown complete", nil)
	return nil
}

// newLogger writes JSON lines to stdout and, when a log directory is set, to
// a rotating file inside it.
func newLogger(cfg config.Config, stdout io.Writer) (*logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	writers := []io.Writer{stdout}
	closeFn := func() {}

	if cfg.App.Logs != "" {
		dir, err := filepath.Abs(cfg.App.Logs)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve log dir: %w", err)
		}
		fw, err := logging.NewFileWriter(dir, logFileName, 10, 5)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, fw)
		closeFn = func() { _ = fw.Close() }
	}
	return logging.New(programName, level, writers...), closeFn, nil
}
