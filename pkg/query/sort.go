package query

import "fmt"

// Sort maps client-facing sort field names onto real columns. Only names
// present in Allowed ever reach SQL; anything else silently falls back to
// Default, so the sort_by parameter can never inject identifiers.
type Sort struct {
	Allowed map[string]string
	Default string
}

// OrderBy renders an ORDER BY clause for the requested field and direction.
// Direction is descending unless order is exactly "asc".
func (s Sort) OrderBy(sortBy, order string) string {
	column, ok := s.Allowed[sortBy]
	if !ok {
		column = s.Default
	}

	direction := "DESC"
	if order == "asc" {
		direction = "ASC"
	}

	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}
