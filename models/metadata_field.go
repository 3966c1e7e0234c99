package models

// MetadataField enumerates the user-editable list fields of a record.
type MetadataField string

const (
	FieldCars       MetadataField = "cars"
	FieldDrivers    MetadataField = "drivers"
	FieldEventTypes MetadataField = "event_types"
	FieldLocations  MetadataField = "locations"
	FieldTags       MetadataField = "tags"
)

var MetadataFields = []MetadataField{
	FieldCars, FieldDrivers, FieldEventTypes, FieldLocations, FieldTags,
}
