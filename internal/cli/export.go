package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/models"
)

var exportFlags struct {
	format string
	rate   int64
	outDir string
}

var exportCmd = &cobra.Command{
	Use:   "export <id>...",
	Short: "Export capture logs as a zip archive",
	Long: `Export bundles the given logs into a single zip archive. Raw mcap keeps
the original sampling; the converted formats (csv_omni, csv_tvn, ld) are
resampled at the chosen rate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		ids, err := parseIds(args)
		if err != nil {
			return err
		}

		format, err := models.ParseDownloadFormat(exportFlags.format)
		if err != nil {
			return err
		}
		request, err := models.NewExportRequest(ids, format, exportFlags.rate)
		if err != nil {
			return err
		}

		result, err := gateway().ExportLogs(ctx, request)
		if err != nil {
			return err
		}

		path := filepath.Join(exportFlags.outDir, result.FileName)
		if err := os.WriteFile(path, result.Content, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, len(result.Content))
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download one log's original mcap file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid log id %q", args[0])
		}

		result, err := gateway().DownloadLog(ctx, id)
		if err != nil {
			return err
		}
		path := filepath.Join(exportFlags.outDir, result.FileName)
		if err := os.WriteFile(path, result.Content, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, len(result.Content))
		return nil
	},
}

func parseIds(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid log id %q", arg)
		}
		ids[i] = id
	}
	return ids, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.format, "format", string(models.FormatMcap),
		"output format (mcap, csv_omni, csv_tvn, ld)")
	exportCmd.Flags().Int64Var(&exportFlags.rate, "rate", models.DefaultResampleRate,
		"resample rate in Hz for converted formats (10, 20, 50, 100)")
	exportCmd.Flags().StringVar(&exportFlags.outDir, "out", ".", "output directory")
	downloadCmd.Flags().StringVar(&exportFlags.outDir, "out", ".", "output directory")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(downloadCmd)
}
