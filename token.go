package main

import (
	"fmt"
	"time"

	"contesthub/config"
	"contesthub/services"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for local development (AUTH_PROVIDER=jwt)",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().String("email", "", "email carried by the token")
	tokenCmd.Flags().String("name", "", "display name carried by the token")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	tokenCmd.MarkFlagRequired("email")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Auth.Provider != config.AuthProviderJWT {
		return fmt.Errorf("tokens can only be issued when AUTH_PROVIDER=%s", config.AuthProviderJWT)
	}

	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	ttl, _ := cmd.Flags().GetDuration("ttl")

	token, err := services.NewJWTVerifier(cfg.Auth.JWTSecret).Issue(services.Identity{Email: email, Name: name}, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
