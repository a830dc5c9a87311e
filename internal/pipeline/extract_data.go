package pipeline

import (
	"github.com/Alias-z/FungariumOCR/internal/data"
)

// extractData turns a structured result into its flat field-to-value form.
func extractData[T any](result T) (*data.Record, error) {
	return data.Flatten(result)
}
