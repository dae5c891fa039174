package domain

import "strings"

// DraftField names one editable field of a Draft.
type DraftField string

const (
	FieldName   DraftField = "name"
	FieldAmp    DraftField = "amp"
	FieldCab    DraftField = "cab"
	FieldGuitar DraftField = "guitar"
	FieldPedals DraftField = "pedals"
	FieldNotes  DraftField = "notes"
	FieldTags   DraftField = "tags"
)

// ParseDraftField maps a wire name to a DraftField.
func ParseDraftField(name string) (DraftField, error) {
	switch f := DraftField(strings.ToLower(strings.TrimSpace(name))); f {
	case FieldName, FieldAmp, FieldCab, FieldGuitar, FieldPedals, FieldNotes, FieldTags:
		return f, nil
	default:
		return "", NewValidationError("field", "unknown draft field "+name)
	}
}

// Draft holds the fields of a tone record that has not been persisted yet.
// The zero value is the empty draft.
type Draft struct {
	Name   string
	Amp    string
	Cab    string
	Guitar string
	Pedals string
	Notes  string
	Tags   string
}

// SetField stores value verbatim in the named field. No validation beyond the field name.
func (d *Draft) SetField(field DraftField, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldAmp:
		d.Amp = value
	case FieldCab:
		d.Cab = value
	case FieldGuitar:
		d.Guitar = value
	case FieldPedals:
		d.Pedals = value
	case FieldNotes:
		d.Notes = value
	case FieldTags:
		d.Tags = value
	default:
		return NewValidationError("field", "unknown draft field "+string(field))
	}
	return nil
}

// ValidateForCommit reports whether the draft may be submitted.
// It never touches the network.
func (d Draft) ValidateForCommit() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name", "required")
	}
	return nil
}

// Clear resets every field to "".
func (d *Draft) Clear() {
	*d = Draft{}
}

// Normalize builds the insert row: name trimmed, blank optional fields absent.
func (d Draft) Normalize() NewTone {
	return NewTone{
		Name:   strings.TrimSpace(d.Name),
		Amp:    TrimOrNil(d.Amp),
		Cab:    TrimOrNil(d.Cab),
		Guitar: TrimOrNil(d.Guitar),
		Pedals: TrimOrNil(d.Pedals),
		Notes:  TrimOrNil(d.Notes),
		Tags:   TrimOrNil(d.Tags),
	}
}
