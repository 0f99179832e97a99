package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentlink/appcore/internal/core/ports"
)

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			user := app.session.CurrentUser()
			if user == nil {
				fmt.Println("Not signed in")
				return nil
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(user)
		},
	}
}

// NewUpdateCmd creates the update command for sparse profile edits. Only the
// flags the user sets are sent; the backend must accept the change before it
// is applied locally.
func NewUpdateCmd() *cobra.Command {
	var (
		name         string
		phone        string
		pricing      string
		availability string
		experience   string
		services     []string
		mobile       bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			var patch ports.ProfileUpdate
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("phone") {
				patch.PhoneNumber = &phone
			}
			if cmd.Flags().Changed("pricing") {
				patch.Pricing = &pricing
			}
			if cmd.Flags().Changed("availability") {
				patch.Availability = &availability
			}
			if cmd.Flags().Changed("experience") {
				patch.Experience = &experience
			}
			if cmd.Flags().Changed("services") {
				patch.Services = services
			}
			if cmd.Flags().Changed("mobile") {
				patch.IsMobile = &mobile
			}

			ok, err := app.session.UpdateUserInfo(cmd.Context(), patch)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("the backend rejected the update; nothing was changed")
			}
			fmt.Println("Profile updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&pricing, "pricing", "", "pricing (talent only)")
	cmd.Flags().StringVar(&availability, "availability", "", "availability (talent only)")
	cmd.Flags().StringVar(&experience, "experience", "", "experience (talent only)")
	cmd.Flags().StringSliceVar(&services, "services", nil, "offered service categories (talent only)")
	cmd.Flags().BoolVar(&mobile, "mobile", false, "talent travels to the client (talent only)")

	return cmd
}

// NewDeleteAccountCmd creates the delete-account command.
func NewDeleteAccountCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.session.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Account deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	return cmd
}
