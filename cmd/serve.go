package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/config"
	"github.com/abhisek/quizgen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the quiz HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := newServices(ctx, cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		port := svc.cfg.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		if !svc.cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := server.New(svc.generator, server.Options{
			DefaultNumQuestions: svc.cfg.DefaultNumQuestions,
			MaxNumQuestions:     svc.cfg.MaxNumQuestions,
			AllowedOrigins:      svc.cfg.AllowedOrigins,
			ReadHeaderTimeout:   config.ReadHeaderTimeout,
			ShutdownTimeout:     config.ShutdownTimeout,
		}, svc.logger)

		return srv.Run(ctx, fmt.Sprintf(":%d", port))
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 5000, "Port to listen on (overrides PORT)")
}
