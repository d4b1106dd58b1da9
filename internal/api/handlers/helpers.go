package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"tour-composer-service/internal/api/dto"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/itinerary"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/session"
	"tour-composer-service/internal/wizard"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into v. It writes the 400
// response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeDomainError maps errors of the wizard and its collaborators to HTTP.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var pf *wizard.PartialFailure

	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.ValidationErrorResponse{
			Error:  "validation failed",
			Fields: verr.FieldMap(),
		})
	case errors.As(err, &pf):
		log.Printf("req_id=%s submit partial failure: tour_id=%s failed=%s err=%v",
			obs.RequestID(r.Context()), pf.TourID, pf.Failed, pf.Err)
		completed := pf.Completed
		if completed == nil {
			completed = []string{}
		}
		writeJSON(w, r, http.StatusBadGateway, dto.PartialFailureResponse{
			Error:     "tour submission failed",
			TourID:    pf.TourID,
			Completed: completed,
			Failed:    pf.Failed,
		})
	case errors.Is(err, session.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "wizard not found")
	case errors.Is(err, itinerary.ErrIndexOutOfRange):
		writeError(w, r, http.StatusNotFound, "visit not found")
	case errors.Is(err, wizard.ErrWrongStep):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
	default:
		log.Printf("req_id=%s internal error: method=%s path=%s err=%v",
			obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
