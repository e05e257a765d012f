package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Port = port
		}

		log, err := newLogger("")
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, st, log)
		if err != nil {
			return err
		}
		// Runs after the server has stopped accepting requests.
		defer a.Close()

		if cfg.JWTSecret == "" {
			log.Warn("JWT_SECRET is not set; authenticated routes will reject every token")
		}

		srv := server.New(server.Options{
			Pipeline:       a.pipeline,
			History:        a.history,
			JWTSecret:      cfg.JWTSecret,
			AllowedOrigins: cfg.AllowedOrigins,
			Production:     cfg.IsProduction(),
			Logger:         log,
		})
		return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Port), cfg.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides PORT)")
}
