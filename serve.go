package main

import (
	"fmt"
	"net/http"

	"cold-email-generator/internal/config"
	config_http "cold-email-generator/internal/features/config/presentation/http"
	"cold-email-generator/internal/features/outreach/application"
	outreach_http "cold-email-generator/internal/features/outreach/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	var opts []config.Option
	if cmd.Flags().Changed("port") {
		opts = append(opts, config.WithOverride("server.port", servePort))
	}

	appConfigService, cfg, err := loadConfig(opts...)
	if err != nil {
		return err
	}

	outreachService, err := newOutreachService(cfg, true)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("Starting server")
	return newRouter(outreachService, appConfigService).Run(addr)
}

func newRouter(outreachService application.OutreachService, appConfigService config.AppConfigService) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	outreach_http.NewOutreachHandler(outreachService).RegisterRoutes(r)

	configGroup := r.Group("/api/config")
	{
		configGroup.GET("/app", config_http.NewAppConfigHandler(appConfigService).GetAppConfigHandler)
	}

	return r
}
