package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/usecases"
)

var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "Show the known values of each metadata field",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		u := usecases.NewLookupsUsecase(gateway())
		u.Refresh(ctx)
		lookups := u.Current()

		if jsonOutput {
			return outputJSON(lookups)
		}
		fmt.Printf("Cars: %s\n", strings.Join(lookups.Cars, ", "))
		fmt.Printf("Drivers: %s\n", strings.Join(lookups.Drivers, ", "))
		fmt.Printf("Event types: %s\n", strings.Join(lookups.EventTypes, ", "))
		fmt.Printf("Locations: %s\n", strings.Join(lookups.Locations, ", "))
		fmt.Printf("Tags: %s\n", strings.Join(lookups.Tags, ", "))
		fmt.Printf("Channels: %s\n", strings.Join(lookups.Channels, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupsCmd)
}
