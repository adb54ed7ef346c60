package cli

import (
	"github.com/spf13/cobra"

	"proshop/internal/config"
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	return newRootCmd(version, commit, date).Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	var cfgFile string
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:           "proshop",
		Short:         "User account API: login, registration, profiles and admin user management",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.ReadFile(v, cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./proshop.yaml)")
	cmd.PersistentFlags().String("db", "", "SQLite DSN (default proshop.db)")
	_ = v.BindPFlag("db_dsn", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(newServeCmd(v))
	cmd.AddCommand(newAdminCmd(v))
	cmd.AddCommand(newVersionCmd(version, commit, date))

	return cmd
}
