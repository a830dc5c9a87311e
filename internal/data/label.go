package data

// Label is the default response shape: the fields transcribed from one
// fungarium specimen label.
type Label struct {
	ImageName      string `json:"image_name"`
	LabelText      string `json:"label_text"`
	ScientificName string `json:"scientific_name"`
	Family         string `json:"family"`
	Collector      string `json:"collector"`
	CollectionDate string `json:"collection_date"`
	Locality       string `json:"locality"`
	Country        string `json:"country"`
	Substrate      string `json:"substrate"`
	SpecimenID     string `json:"specimen_id"`
	Handwritten    bool   `json:"handwritten"`
}

var labelFields = []struct {
	name        string
	kind        string
	description string
}{
	{"image_name", "string", "File name of the image, exactly as given in the prompt"},
	{"label_text", "string", "Full verbatim transcription of all label text, lines separated by newlines"},
	{"scientific_name", "string", "Taxon name as written, including author if present"},
	{"family", "string", "Family name if printed on the label"},
	{"collector", "string", "Collector name(s)"},
	{"collection_date", "string", "Collection date as written on the label"},
	{"locality", "string", "Locality description"},
	{"country", "string", "Country of collection"},
	{"substrate", "string", "Host or substrate the specimen was found on"},
	{"specimen_id", "string", "Herbarium or accession number"},
	{"handwritten", "boolean", "True if any part of the label is handwritten"},
}

func (Label) SchemaName() string { return "fungarium_label" }

// JSONSchema describes Label in the strict subset accepted by structured
// output APIs: every property required, no additional properties.
func (Label) JSONSchema() map[string]any {
	props := make(map[string]any, len(labelFields))
	required := make([]string, 0, len(labelFields))
	for _, f := range labelFields {
		props[f.name] = map[string]any{
			"type":        f.kind,
			"description": f.description,
		}
		required = append(required, f.name)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}
