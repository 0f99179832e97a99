// talentctl drives the marketplace auth/session flows from the command
// line: account creation, login (local and federated), password reset,
// profile edits, and talent search.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentlink/appcore/cmd/talentctl/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "talentctl",
		Short: "Session and account tool for the talentlink marketplace",
		Long:  "CLI for managing the on-device marketplace session: signup, login, profile, and talent search",
	}

	rootCmd.AddCommand(commands.NewSignupCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewGoogleLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewForgotPasswordCmd())
	rootCmd.AddCommand(commands.NewResetPasswordCmd())
	rootCmd.AddCommand(commands.NewUpdateCmd())
	rootCmd.AddCommand(commands.NewDeleteAccountCmd())
	rootCmd.AddCommand(commands.NewSearchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
