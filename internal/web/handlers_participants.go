package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/register/internal/core"
)

// maxJSONBody caps register and check-in request bodies.
const maxJSONBody = 1 << 20

// participantList is the response of GET /api/participants.
type participantList struct {
	Count        int                `json:"count"`
	Participants []core.Participant `json:"participants"`
}

// checkinRequest is the body of POST /api/checkin.
type checkinRequest struct {
	IDs []int `json:"ids"`
	Day int   `json:"day"`
}

// handleListParticipants serves the filtered registry.
// Query parameters: name, district, coop (or association).
func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := core.FilterOptions{
		Name:        q.Get("name"),
		District:    q.Get("district"),
		Association: q.Get("coop"),
	}
	if opts.Association == "" {
		opts.Association = q.Get("association")
	}

	t, err := s.service.Filter(r.Context(), opts)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, participantList{Count: len(t), Participants: t})
}

// handleRegister registers one participant.
// 201 on success, 409 for a duplicate, 422 for missing fields.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req core.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	result, err := s.service.Register(withRequestMetadata(r), req)
	if err != nil {
		fail(w, r, err)
		return
	}

	status := http.StatusCreated
	switch {
	case result.OK:
	case result.Message == core.MsgAlreadyRegistered:
		status = http.StatusConflict
	default:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// handleCheckin marks sequence numbers as attended on one day.
func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if len(req.IDs) == 0 {
		fail(w, r, errNoParticipants)
		return
	}

	result, err := s.service.CheckinBulk(withRequestMetadata(r), req.IDs, core.Day(req.Day))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return fmt.Errorf("%w: body must contain a single JSON object", errInvalidRequest)
	}
	return nil
}
