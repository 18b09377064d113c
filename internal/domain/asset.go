package domain

// AssetRecord is one image in the flashcard folder as seen by the engine.
// It is created once per listing and never modified afterwards.
type AssetRecord struct {
	// ID is the opaque handle assigned by the asset source.
	ID string `json:"id"`

	// NormalizedName is the lowercase, extension-stripped name used for matching.
	NormalizedName string `json:"normalized_name"`

	// DisplayName is the raw file name as listed by the source.
	DisplayName string `json:"display_name"`
}

// IDs returns the identifiers of the given records in order.
func IDs(records []AssetRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
