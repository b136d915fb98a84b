package cli

import (
	"context"
	"fmt"
	"time"

	"SchoolCMS/internal/auth"
	"SchoolCMS/internal/config"

	"github.com/spf13/cobra"
)

type createAdminOptions struct {
	Email    string
	Name     string
	Password string
}

// NewCreateAdminCommand creates or resets an admin account.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createAdminOptions{}

	cmd := &cobra.Command{
		Use:          "create-admin",
		Short:        "Create an admin account or reset its password",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadConfig(rootOpts)
			defer log.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			store, err := config.OpenDocumentStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			svc := auth.NewService(auth.NewAdminRepository(store), nil, auth.TokenConfig{}, log)
			created, err := svc.CreateAdmin(ctx, opts.Email, opts.Name, opts.Password)
			if err != nil {
				return err
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", opts.Email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s updated\n", opts.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "Principal", "display name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
