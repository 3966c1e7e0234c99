package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/models"
)

var showTrack bool

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one capture log in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid log id %q", args[0])
		}

		repo := gateway()
		record, err := repo.GetLog(ctx, id)
		if err != nil {
			return err
		}

		if showTrack {
			track, _ := repo.GetGeoJson(ctx, id)
			if jsonOutput {
				return outputJSON(map[string]any{"log": record, "track": track})
			}
			printRecord(record)
			printTrack(track)
			return nil
		}

		if jsonOutput {
			return outputJSON(record)
		}
		printRecord(record)
		return nil
	},
}

func printRecord(r models.LogRecord) {
	fmt.Printf("Log %d: %s\n", r.Id, r.FileName)
	fmt.Printf("  Recovery: %s\n", r.RecoveryStatus)
	fmt.Printf("  Parse: %s\n", r.ParseStatus)
	if r.CapturedAt.Valid {
		fmt.Printf("  Captured: %s\n", r.CapturedAt.Time.Format("2006-01-02 15:04:05"))
	}
	if r.DurationSeconds.Valid {
		fmt.Printf("  Duration: %.1fs\n", r.DurationSeconds.Float64)
	}
	if r.FileSize.Valid {
		fmt.Printf("  Size: %d bytes\n", r.FileSize.Int64)
	}
	fmt.Printf("  Channels: %d\n", r.ChannelCount)
	if len(r.ChannelsSummary) > 0 {
		fmt.Printf("  Channel summary: %s\n", strings.Join(r.ChannelsSummary, ", "))
	}
	fmt.Printf("  Cars: %s\n", strings.Join(r.Cars, ", "))
	fmt.Printf("  Drivers: %s\n", strings.Join(r.Drivers, ", "))
	fmt.Printf("  Event types: %s\n", strings.Join(r.EventTypes, ", "))
	fmt.Printf("  Locations: %s\n", strings.Join(r.Locations, ", "))
	fmt.Printf("  Tags: %s\n", strings.Join(r.Tags, ", "))
	if r.Notes != "" {
		fmt.Printf("  Notes: %s\n", r.Notes)
	}
	fmt.Printf("  Map data: %v\n", r.MapDataAvailable)
}

func printTrack(track models.GeoFeatureCollection) {
	if track.Empty() {
		fmt.Println("  Track: none")
		return
	}
	payload, err := json.Marshal(track)
	if err != nil {
		fmt.Println("  Track: unavailable")
		return
	}
	fmt.Printf("  Track: %s\n", payload)
}

func init() {
	showCmd.Flags().BoolVar(&showTrack, "track", false, "include the recovered GPS track")
	rootCmd.AddCommand(showCmd)
}
