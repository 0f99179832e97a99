package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search talents by service category",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			talents, err := app.transport.SearchTalents(cmd.Context(), service)
			if err != nil {
				return err
			}
			if len(talents) == 0 {
				fmt.Printf("No talents found for %q\n", service)
				return nil
			}

			for _, t := range talents {
				line := fmt.Sprintf("%s  %s", t.ID, t.Name)
				if len(t.Services) > 0 {
					line += "  [" + strings.Join(t.Services, ", ") + "]"
				}
				if t.Pricing != "" {
					line += "  " + t.Pricing
				}
				if t.IsMobile {
					line += "  (mobile)"
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "service category to search for")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}
