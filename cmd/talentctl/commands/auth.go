package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talentlink/appcore/internal/core/auth"
	"github.com/talentlink/appcore/internal/core/domain"
	"github.com/talentlink/appcore/internal/core/ports"
)

// NewSignupCmd creates the signup command.
func NewSignupCmd() *cobra.Command {
	var (
		name     string
		email    string
		phone    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a marketplace account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			user, err := app.auth.Signup(cmd.Context(), ports.SignupInput{
				FullName:    name,
				Email:       email,
				PhoneNumber: phone,
				Password:    password,
				Role:        domain.Role(role),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Signed up as %s (%s, role %s)\n", user.Name, user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number (optional)")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", "", "account role: client or talent")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	var (
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			user, err := app.auth.Login(cmd.Context(), email, password, domain.Role(role))
			if err != nil {
				return err
			}

			fmt.Printf("Signed in as %s (%s, role %s)\n", user.Name, user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", "", "account role: client or talent")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

// NewGoogleLoginCmd creates the google-login command. Without --id-token it
// runs the interactive authorization-code flow: prints the consent URL and
// reads the code from stdin.
func NewGoogleLoginCmd() *cobra.Command {
	var (
		role    string
		idToken string
	)

	cmd := &cobra.Command{
		Use:   "google-login",
		Short: "Sign in with a Google account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if idToken == "" {
				g := auth.NewGoogleAuthenticator(
					app.cfg.Google.ClientID,
					app.cfg.Google.ClientSecret,
					app.cfg.Google.RedirectURL,
				)

				fmt.Println("Visit the URL below, grant access, and paste the code:")
				fmt.Println(g.AuthCodeURL(uuid.NewString()))
				fmt.Print("Code: ")

				reader := bufio.NewReader(os.Stdin)
				code, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read code: %w", err)
				}

				idToken, err = g.ExchangeCode(cmd.Context(), strings.TrimSpace(code))
				if err != nil {
					return err
				}
			}

			user, err := app.auth.GoogleLogin(cmd.Context(), idToken, domain.Role(role))
			if err != nil {
				return err
			}

			fmt.Printf("Signed in as %s (%s, role %s)\n", user.Name, user.ID, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "account role: client or talent")
	cmd.Flags().StringVar(&idToken, "id-token", "", "pre-obtained Google id token (skips the interactive flow)")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the on-device session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}
