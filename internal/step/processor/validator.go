// Package processor holds the per-source pipeline stages: schema validation, record
// transformation, column normalization, and the cross-source deduplication.
package processor

import (
	"github.com/tigerroll/windcapex/internal/domain"
	"github.com/tigerroll/windcapex/internal/schema"
)

// SchemaValidator checks a source header against the required input columns.
type SchemaValidator struct {
	required []string
}

// NewSchemaValidator validates against schema.RequiredInputColumns.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{required: schema.RequiredInputColumns}
}

// Validate returns the required columns missing from table, in required-list order.
// Extra columns are ignored. An empty result means the source may be transformed.
func (v *SchemaValidator) Validate(table *domain.RawTable) []string {
	var missing []string
	for _, c := range v.required {
		if !table.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
