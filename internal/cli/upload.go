package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/repositories"
	"github.com/pitwall/logdeck/repositories/clock"
	"github.com/pitwall/logdeck/usecases"
)

var uploadWait bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file.mcap>...",
	Short: "Upload capture files and track their processing",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		repo := gateway()
		list := usecases.NewListSyncUsecase(repo, clock.New())
		poller := usecases.NewJobStatusPoller(repo, list, usecases.DefaultPollInterval)
		uploader := usecases.NewUploadUsecase(repo, poller, list)

		var files []repositories.UploadFile
		var handles []*os.File
		defer func() {
			for _, h := range handles {
				h.Close()
			}
		}()
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			handles = append(handles, f)
			files = append(files, repositories.UploadFile{
				Name:    filepath.Base(path),
				Content: f,
			})
		}

		ids, err := uploader.Upload(ctx, files)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %d logs: %v\n", len(ids), ids)

		if !uploadWait {
			return outputJSON(map[string]any{"ids": ids})
		}

		// Poll until every uploaded record reaches a terminal state in both
		// pipeline stages.
		poller.Start(ctx)
		defer poller.Stop()
		for poller.TrackedCount() > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(usecases.DefaultPollInterval):
				fmt.Printf("waiting on %d logs...\n", poller.TrackedCount())
			}
		}
		fmt.Println("processing finished")
		return outputJSON(map[string]any{"ids": ids})
	},
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadWait, "wait", false, "block until processing finishes")
	rootCmd.AddCommand(uploadCmd)
}
