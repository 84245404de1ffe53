package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/farmchain/soiladvisor/internal/config"
	httpiface "github.com/farmchain/soiladvisor/internal/interfaces/http"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := initApp(opts)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), application, opts.configPath)
		},
	}
}

func runServe(ctx context.Context, application *app, configPath string) error {
	srv := httpiface.NewServer(application.cfg.Server, application.service,
		application.collector, application.metrics, application.logger)

	if configPath != "" {
		// Config hot-reload is advisory only: server and pipeline settings
		// need a restart, so just surface the change.
		config.Watch(configPath, func(*config.Config) {
			application.logger.Info("config file changed, restart to apply")
		})
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return srv.Stop(context.Background())
	}
}
