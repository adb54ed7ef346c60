package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"proshop/internal/config"
	"proshop/internal/repos"
	"proshop/internal/services"
)

func newAdminCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin users",
		Long:  "Bootstrap administrators. The HTTP API never lets a user grant themselves the admin flag.",
	}
	cmd.AddCommand(newAdminCreateCmd(v))
	return cmd
}

// ---------- admin create ----------

func newAdminCreateCmd(v *viper.Viper) *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user or promote an existing one",
		Example: `  proshop admin create --email admin@example.com --password secret
  proshop admin create --email admin@example.com  # prompts for password`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if password == "" {
				if password, err = promptPassword(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return runAdminCreate(cmd.OutOrStdout(), cfg, name, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (prompted if omitted)")
	cmd.Flags().StringVar(&name, "name", "Admin", "Admin display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runAdminCreate(out io.Writer, cfg config.Config, name, email, password string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %q", email)
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	users := services.NewUserService(repos.NewUserRepo(db))
	u, created, err := users.EnsureAdmin(name, email, password)
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(out, "Created admin user %q (%s)\n", u.Email, u.ID)
	} else {
		fmt.Fprintf(out, "Promoted existing user %q (%s) to admin\n", u.Email, u.ID)
	}
	return nil
}

func promptPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}
	fmt.Fprint(out, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprint(out, "Confirm password: ")
	confirm, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if string(pw) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(pw), nil
}
