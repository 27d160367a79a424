package core

// validation.go provides field-level checks for registrations and import rows.
//
// Validation never fails an operation on its own: registration turns problems
// into a RegisterResult message, and import filters bad rows. The detailed
// ValidationError list feeds the import preview so an operator can see why a
// row would be skipped.

import (
	"fmt"
	"strings"
)

// Registration outcome messages.
const (
	MsgRequiredFields    = "Name, District and Province are required."
	MsgAlreadyRegistered = "This participant is already registered."
	MsgRegistrationSaved = "Registration saved."
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Canonical column name
	Value   string // The offending value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Trimmed returns the request with surrounding whitespace removed.
func (r RegisterRequest) Trimmed() RegisterRequest {
	return RegisterRequest{
		Name:        strings.TrimSpace(r.Name),
		Association: strings.TrimSpace(r.Association),
		District:    strings.TrimSpace(r.District),
		Province:    strings.TrimSpace(r.Province),
	}
}

// ValidateRegistration returns one error per missing required field.
func ValidateRegistration(r RegisterRequest) []ValidationError {
	r = r.Trimmed()
	var errs []ValidationError
	if r.Name == "" {
		errs = append(errs, ValidationError{Field: ColName, Message: "required field is empty"})
	}
	if r.District == "" {
		errs = append(errs, ValidationError{Field: ColDistrict, Message: "required field is empty"})
	}
	if r.Province == "" {
		errs = append(errs, ValidationError{Field: ColProvince, Message: "required field is empty"})
	}
	return errs
}

// ValidateImportRow reports the problems that make import skip a row.
// Only name and district are required on import.
func ValidateImportRow(p Participant) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{Field: ColName, Message: "required field is empty"})
	}
	if strings.TrimSpace(p.District) == "" {
		errs = append(errs, ValidationError{Field: ColDistrict, Message: "required field is empty"})
	}
	return errs
}

// ValidateRawRow checks the cells of one raw input row against the canonical
// field types. Coercion never fails, so these are warnings: a value listed
// here will be stored as its zero value.
func ValidateRawRow(header []string, row []string) []ValidationError {
	pos := resolveColumns(header)
	var errs []ValidationError
	for i, spec := range ParticipantFields {
		p := pos[i]
		if p < 0 || p >= len(row) {
			continue
		}
		if err := ValidateCell(row[p], spec); err != nil {
			errs = append(errs, ValidationError{Field: spec.Name, Value: CleanCell(row[p]), Message: err.Error()})
		}
	}
	return errs
}

// ValidateCell validates a single cell value against a field specification.
// Returns nil if valid, or an error describing the problem.
func ValidateCell(value string, spec FieldSpec) error {
	value = CleanCell(value)
	if value == "" {
		return nil
	}

	switch spec.Type {
	case FieldNumeric:
		if ParseSequence(value) == 0 {
			return fmt.Errorf("invalid number %q, sequence numbers must be positive integers", value)
		}
	case FieldBool:
		if ParseLooseBool(value) {
			return nil
		}
		if v, ok := ParseBool(value); ok && !v {
			return nil
		}
		return fmt.Errorf("%q is not true, yes or 1 and will be stored as FALSE", value)
	}
	return nil
}

// ValidateHeaders reports the required canonical columns absent from headers.
func ValidateHeaders(headers []string) error {
	pos := resolveColumns(headers)
	var missing []string
	for i, spec := range ParticipantFields {
		if spec.Required && pos[i] < 0 {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required column: %s", strings.Join(missing, ", "))
	}
	return nil
}
