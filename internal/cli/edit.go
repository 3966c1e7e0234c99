package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pitwall/logdeck/models"
	"github.com/pitwall/logdeck/repositories/clock"
	"github.com/pitwall/logdeck/usecases"
)

var editFlags struct {
	add    map[models.MetadataField]*[]string
	remove map[models.MetadataField]*[]string
	notes  string
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit the metadata and notes of one capture log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid log id %q", args[0])
		}

		repo := gateway()
		list := usecases.NewListSyncUsecase(repo, clock.New())
		lookups := usecases.NewLookupsUsecase(repo)
		dialog := usecases.NewEditDialogUsecase(repo, list, lookups)

		if err := dialog.Open(ctx, id); err != nil {
			return err
		}
		for field, values := range editFlags.add {
			for _, value := range *values {
				dialog.Add(field, value)
			}
		}
		for field, values := range editFlags.remove {
			for _, value := range *values {
				dialog.Remove(field, value)
			}
		}
		if cmd.Flags().Changed("notes") {
			dialog.SetNotes(editFlags.notes)
		}

		if err := dialog.Save(ctx); err != nil {
			return err
		}
		fmt.Printf("log %d updated\n", id)
		return nil
	},
}

func init() {
	editFlags.add = map[models.MetadataField]*[]string{}
	editFlags.remove = map[models.MetadataField]*[]string{}
	names := map[models.MetadataField]string{
		models.FieldCars:       "car",
		models.FieldDrivers:    "driver",
		models.FieldEventTypes: "event-type",
		models.FieldLocations:  "location",
		models.FieldTags:       "tag",
	}
	for _, field := range models.MetadataFields {
		name := names[field]
		add := editCmd.Flags().StringSlice("add-"+name, nil, "add a "+name)
		remove := editCmd.Flags().StringSlice("remove-"+name, nil, "remove a "+name)
		editFlags.add[field] = add
		editFlags.remove[field] = remove
	}
	editCmd.Flags().StringVar(&editFlags.notes, "notes", "", "replace the notes")
	rootCmd.AddCommand(editCmd)
}
