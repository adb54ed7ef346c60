package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"proshop/internal/config"
	apphttp "proshop/internal/http"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return apphttp.Serve(context.Background(), cfg)
		},
	}

	cmd.Flags().StringP("port", "p", "", "HTTP listen port (default 5000)")
	cmd.Flags().String("env", "", "runtime environment: development or production")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("env", cmd.Flags().Lookup("env"))

	return cmd
}
