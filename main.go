package main

import (
	"os"

	"contesthub/config"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// @title ContestHub API
// @version 1.0
// @description Contest hosting backend: users, contests, registrations, payments and leaderboards.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:           "contesthub",
		Short:         "ContestHub API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}

// loadConfig reads the configuration and sets up logging for the configured gin mode
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	gin.SetMode(cfg.GinMode)
	log.SetOutput(os.Stdout)
	if cfg.GinMode == gin.ReleaseMode {
		log.SetFormatter(&log.JSONFormatter{})
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}
