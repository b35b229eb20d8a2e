package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeittracker/zeit/internal/activity"
)

var (
	catalogName        string
	catalogID          string
	catalogDescription string
	catalogIsWork      bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the activity-type catalog",
	Long: `The catalog defines what the classifier can label a sample as.
Every entry appears in the classification prompt, so the catalog is
capped and must keep at least one work and one personal type. The id
"idle" is reserved.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := cfg.ActivityCatalog()

		fmt.Println("Work:")
		for _, t := range catalog.Work() {
			fmt.Printf("  %-26s %s\n", t.ID, t.Description)
		}
		fmt.Println("Personal:")
		for _, t := range catalog.Personal() {
			fmt.Printf("  %-26s %s\n", t.ID, t.Description)
		}
		return nil
	},
}

var catalogAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an activity type",
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogName == "" {
			return fmt.Errorf("--name is required")
		}

		next, err := cfg.ActivityCatalog().Add(activity.ActivityType{
			ID:          catalogID,
			Name:        catalogName,
			Description: catalogDescription,
			IsWork:      catalogIsWork,
		})
		if err != nil {
			return err
		}

		cfg.Catalog = next
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Added %q (%d types total).\n", next[len(next)-1].ID, len(next))
		return nil
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an activity type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		next, err := cfg.ActivityCatalog().Remove(args[0])
		if err != nil {
			return err
		}

		cfg.Catalog = next
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Removed %q (%d types remain).\n", args[0], len(next))
		return nil
	},
}

func init() {
	catalogAddCmd.Flags().StringVar(&catalogName, "name", "", "display name")
	catalogAddCmd.Flags().StringVar(&catalogID, "id", "", "id (derived from name when omitted)")
	catalogAddCmd.Flags().StringVar(&catalogDescription, "description", "", "one-line description used in the classification prompt")
	catalogAddCmd.Flags().BoolVar(&catalogIsWork, "work", false, "classify as a work activity")

	catalogCmd.AddCommand(catalogListCmd, catalogAddCmd, catalogRemoveCmd)
	rootCmd.AddCommand(catalogCmd)
}
