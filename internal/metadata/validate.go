package metadata

import (
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(tagName)
	return v
}

// ValidateTopic checks the top-level shape of the document. Tables are not
// descended into; ValidateTable covers them.
func ValidateTopic(t *Topic) error {
	if err := validate.Struct(t); err != nil {
		return shapeError(err, t.source, "topic", t.Name)
	}
	return nil
}

// ValidateTable checks a table and its variables. Editions are not
// descended into; ValidateEdition covers them.
func ValidateTable(t *Topic, table *Table) error {
	if err := validate.Struct(table); err != nil {
		return shapeError(err, t.source, "table", table.Name)
	}
	return nil
}

// ValidateEdition checks one edition, including the facts attached by the
// pipeline.
func ValidateEdition(t *Topic, edition *Edition) error {
	if err := validate.Struct(edition); err != nil {
		return shapeError(err, t.source, "edition", edition.Date)
	}
	return nil
}
