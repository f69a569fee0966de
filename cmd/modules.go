package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// modulesCmd lists the account's modules and categories without starting
// the TUI, handy for scripting and for checking credentials.
var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List your modules and categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		user, err := client.Me(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		fmt.Printf("Signed in as %s\n\n", user.Name)

		fmt.Println("Modules:")
		if len(user.Modules) == 0 {
			fmt.Println("  (none)")
		}
		for _, m := range user.Modules {
			fmt.Printf("  %6d  %s\n", m.ID, m.Name)
		}

		fmt.Println("\nCategories:")
		if len(user.Categories) == 0 {
			fmt.Println("  (none)")
		}
		for _, c := range user.Categories {
			fmt.Printf("  %6d  %s\n", c.ID, c.Name)
		}
		return nil
	},
}

func init() {
	modulesCmd.SetContext(context.Background())
}
