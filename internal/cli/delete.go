package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/models"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete capture logs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		ids, err := parseIds(args)
		if err != nil {
			return err
		}

		if !deleteYes {
			fmt.Printf("delete %d logs? [y/N] ", len(ids))
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if !strings.EqualFold(strings.TrimSpace(answer), "y") {
				fmt.Println("aborted")
				return nil
			}
		}

		err = gateway().DeleteLogs(ctx, ids)
		if partial, ok := models.IsPartialDelete(err); ok {
			fmt.Printf("deleted %d of %d logs\n", len(ids)-partial.Failed, len(ids))
			return err
		}
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d logs\n", len(ids))
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
