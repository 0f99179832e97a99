package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewForgotPasswordCmd creates the forgot-password command.
func NewForgotPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Email a password reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.auth.RequestPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Printf("Reset code sent to %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email address")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewResetPasswordCmd creates the reset-password command, consuming the code
// mailed by forgot-password.
func NewResetPasswordCmd() *cobra.Command {
	var (
		email    string
		code     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using the emailed reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.auth.ConfirmPasswordReset(cmd.Context(), email, code, password); err != nil {
				return err
			}
			fmt.Println("Password updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email address")
	cmd.Flags().StringVar(&code, "code", "", "reset code from the email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
