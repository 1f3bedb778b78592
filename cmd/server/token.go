package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vardhman18/tachyon-war-for-treasure-25/internal/security"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "organizer-token",
		Short: "Print a signed organizer token for the admin routes and command channel.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}

			token, err := security.GenerateOrganizerToken(subject, cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "organizer", "name recorded in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", security.OrganizerTokenTTL, "token lifetime")

	return cmd
}
