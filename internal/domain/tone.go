package domain

import "time"

// ToneRecord is a persisted equipment configuration owned by one identity.
// ID and CreatedAt are assigned by the store. Optional fields are nil when absent.
type ToneRecord struct {
	ID        string
	OwnerID   string
	Name      string
	Amp       *string
	Cab       *string
	Guitar    *string
	Pedals    *string
	Notes     *string
	Tags      *string
	CreatedAt time.Time
}

// NewTone is the normalized row submitted to the store on insert.
type NewTone struct {
	Name   string
	Amp    *string
	Cab    *string
	Guitar *string
	Pedals *string
	Notes  *string
	Tags   *string
}

// CloneRecords returns a deep copy of records. A nil input yields an empty slice.
func CloneRecords(records []ToneRecord) []ToneRecord {
	out := make([]ToneRecord, len(records))
	for i, r := range records {
		out[i] = r
		out[i].Amp = clonePtr(r.Amp)
		out[i].Cab = clonePtr(r.Cab)
		out[i].Guitar = clonePtr(r.Guitar)
		out[i].Pedals = clonePtr(r.Pedals)
		out[i].Notes = clonePtr(r.Notes)
		out[i].Tags = clonePtr(r.Tags)
	}
	return out
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
