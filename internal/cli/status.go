package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/repositories/clock"
	"github.com/pitwall/logdeck/usecases"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		probe := usecases.NewStatusProbeUsecase(gateway(), clock.New(), usecases.DefaultProbeInterval)

		status := probe.Check(ctx)
		if jsonOutput {
			return outputJSON(map[string]any{"status": status})
		}
		fmt.Println(string(status))
		if status != usecases.BackendConnected {
			return fmt.Errorf("backend unreachable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
