package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/repositories/clock"
	"github.com/pitwall/logdeck/usecases"
)

var listFilters struct {
	search    string
	startDate string
	endDate   string
	car       string
	eventType string
	driver    string
	location  string
	channel   string
	tag       string
	page      int
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List capture logs matching the given filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		list := usecases.NewListSyncUsecase(gateway(), clock.New())

		list.Apply(ctx, models.LogFilters{
			Search:    listFilters.search,
			StartDate: listFilters.startDate,
			EndDate:   listFilters.endDate,
			Car:       listFilters.car,
			EventType: listFilters.eventType,
			Driver:    listFilters.driver,
			Location:  listFilters.location,
			Channel:   listFilters.channel,
			Tag:       listFilters.tag,
			Page:      listFilters.page,
		})

		state := list.State()
		if state.Err != nil {
			return state.Err
		}
		if jsonOutput {
			return outputJSON(map[string]any{
				"count":   state.Total,
				"page":    state.Filters.Page,
				"pages":   list.TotalPages(),
				"results": state.Records,
			})
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILE\tRECOVERY\tPARSE\tCAPTURED\tCARS\tDRIVERS")
		for _, r := range state.Records {
			captured := ""
			if r.CapturedAt.Valid {
				captured = r.CapturedAt.Time.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Id, r.FileName, r.RecoveryStatus, r.ParseStatus, captured,
				strings.Join(r.Cars, ","), strings.Join(r.Drivers, ","))
		}
		w.Flush()
		fmt.Printf("page %d of %d (%d logs)\n", state.Filters.Page, list.TotalPages(), state.Total)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFilters.search, "search", "", "substring match on file name and notes")
	listCmd.Flags().StringVar(&listFilters.startDate, "start-date", "", "earliest capture date (YYYY-MM-DD, inclusive)")
	listCmd.Flags().StringVar(&listFilters.endDate, "end-date", "", "latest capture date (YYYY-MM-DD, inclusive)")
	listCmd.Flags().StringVar(&listFilters.car, "car", "", "filter on car")
	listCmd.Flags().StringVar(&listFilters.eventType, "event-type", "", "filter on event type")
	listCmd.Flags().StringVar(&listFilters.driver, "driver", "", "filter on driver")
	listCmd.Flags().StringVar(&listFilters.location, "location", "", "filter on location")
	listCmd.Flags().StringVar(&listFilters.channel, "channel", "", "filter on recorded channel")
	listCmd.Flags().StringVar(&listFilters.tag, "tag", "", "filter on tag")
	listCmd.Flags().IntVar(&listFilters.page, "page", 1, "result page")
	rootCmd.AddCommand(listCmd)
}
