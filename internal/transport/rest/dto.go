package rest

import (
	"time"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/tonesync"
)

type stateResponse struct {
	Version          uint64          `json:"version"`
	Phase            string          `json:"phase"`
	Identity         *identityDTO    `json:"identity"`
	IsLoadingRecords bool            `json:"isLoadingRecords"`
	Records          []toneRecordDTO `json:"records"`
	Draft            draftDTO        `json:"draft"`
	IsSubmitting     bool            `json:"isSubmitting"`
	LastError        *lastErrorDTO   `json:"lastError"`
	Notice           string          `json:"notice,omitempty"`
}

type identityDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type toneRecordDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amp       *string   `json:"amp"`
	Cab       *string   `json:"cab"`
	Guitar    *string   `json:"guitar"`
	Pedals    *string   `json:"pedals"`
	Notes     *string   `json:"notes"`
	Tags      *string   `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

type draftDTO struct {
	Name   string `json:"name"`
	Amp    string `json:"amp"`
	Cab    string `json:"cab"`
	Guitar string `json:"guitar"`
	Pedals string `json:"pedals"`
	Notes  string `json:"notes"`
	Tags   string `json:"tags"`
}

type lastErrorDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func toStateResponse(s tonesync.Snapshot) stateResponse {
	resp := stateResponse{
		Version:          s.Version,
		Phase:            s.Phase.String(),
		IsLoadingRecords: s.IsLoadingRecords,
		Records:          make([]toneRecordDTO, 0, len(s.Records)),
		Draft:            toDraftDTO(s.Draft),
		IsSubmitting:     s.IsSubmitting,
		Notice:           s.Notice,
	}
	if s.Identity != nil {
		resp.Identity = &identityDTO{ID: s.Identity.ID, Email: s.Identity.Email}
	}
	for _, r := range s.Records {
		resp.Records = append(resp.Records, toneRecordDTO{
			ID:        r.ID,
			Name:      r.Name,
			Amp:       r.Amp,
			Cab:       r.Cab,
			Guitar:    r.Guitar,
			Pedals:    r.Pedals,
			Notes:     r.Notes,
			Tags:      r.Tags,
			CreatedAt: r.CreatedAt,
		})
	}
	if s.LastError != nil {
		resp.LastError = &lastErrorDTO{Kind: string(s.LastError.Kind), Message: s.LastError.Message}
	}
	return resp
}

func toDraftDTO(d domain.Draft) draftDTO {
	return draftDTO{
		Name:   d.Name,
		Amp:    d.Amp,
		Cab:    d.Cab,
		Guitar: d.Guitar,
		Pedals: d.Pedals,
		Notes:  d.Notes,
		Tags:   d.Tags,
	}
}
