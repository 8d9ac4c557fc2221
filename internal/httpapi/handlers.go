package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"gatelog/internal/gatelog/service"
	"gatelog/internal/gatelog/types"
)

// uploadRequest is the device payload.  Older reader firmware sends the
// positional value1..value4 field names; both spellings are accepted.
type uploadRequest struct {
	UID        string `json:"uid"`
	Direction  string `json:"direction"`
	DeviceName string `json:"device_name"`
	DeviceTime string `json:"device_time"`

	Value1 string `json:"value1"`
	Value2 string `json:"value2"`
	Value3 string `json:"value3"`
	Value4 string `json:"value4"`
}

func (r uploadRequest) scan() types.ScanRequest {
	req := types.ScanRequest{
		UID:        r.UID,
		Direction:  types.Direction(r.Direction),
		DeviceName: r.DeviceName,
		DeviceTime: r.DeviceTime,
	}
	if req.UID == "" {
		req.UID = r.Value1
	}
	if req.Direction == "" {
		req.Direction = types.Direction(r.Value2)
	}
	if req.DeviceName == "" {
		req.DeviceName = r.Value3
	}
	if req.DeviceTime == "" {
		req.DeviceTime = r.Value4
	}
	return req
}

type uploadResponse struct {
	Success    bool   `json:"success"`
	Authorized bool   `json:"authorized"`
	User       string `json:"user,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.ingest.Ingest(r.Context(), req.scan())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			writeError(w, http.StatusBadRequest, "missing_parameters", err.Error())
		case errors.Is(err, service.ErrAuthorizationLookup):
			s.logger.Error("upload: authorization lookup", "err", err)
			writeError(w, http.StatusInternalServerError, "lookup_failed", "authorization lookup failed")
		case errors.Is(err, service.ErrPersistence):
			s.logger.Error("upload: persist", "err", err)
			writeError(w, http.StatusInternalServerError, "write_failed", "event write failed")
		default:
			s.logger.Error("upload: unexpected", "err", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:    true,
		Authorized: resp.Authorized,
		User:       resp.Owner,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.query.Logs(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		s.respondQueryError(w, "logs", err)
		return
	}

	out := make([]logEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, logEntryFromStore(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := s.query.Stats(r.Context(), service.StatsQuery{
		Date:  q.Get("date"),
		Start: q.Get("start"),
		End:   q.Get("end"),
	})
	if err != nil {
		s.respondQueryError(w, "stats", err)
		return
	}

	if result.Day != nil {
		writeJSON(w, http.StatusOK, result.Day)
		return
	}
	writeJSON(w, http.StatusOK, result.Buckets)
}

func (s *Server) handleUniqueUIDs(w http.ResponseWriter, r *http.Request) {
	uids, err := s.query.DistinctUIDs(r.Context())
	if err != nil {
		s.respondQueryError(w, "unique-uids", err)
		return
	}
	writeJSON(w, http.StatusOK, uids)
}

func (s *Server) handleUnauthorizedUIDs(w http.ResponseWriter, r *http.Request) {
	uids, err := s.query.UnauthorizedUIDs(r.Context())
	if err != nil {
		s.respondQueryError(w, "unauthorized-uids", err)
		return
	}
	writeJSON(w, http.StatusOK, uids)
}

// ── Allow-list management (thin CRUD) ────────────────────────────────────────

type allowListRequest struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

func (s *Server) handleListAuthorized(w http.ResponseWriter, r *http.Request) {
	entries, err := s.allowList.List(r.Context())
	if err != nil {
		s.respondQueryError(w, "authorized list", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddAuthorized(w http.ResponseWriter, r *http.Request) {
	var req allowListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if err := s.allowList.Add(r.Context(), req.UID, req.Username); err != nil {
		s.respondQueryError(w, "authorized add", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleRenameAuthorized(w http.ResponseWriter, r *http.Request) {
	var req allowListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}
	if err := s.allowList.Rename(r.Context(), r.PathValue("uid"), req.Username); err != nil {
		s.respondQueryError(w, "authorized rename", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteAuthorized(w http.ResponseWriter, r *http.Request) {
	if err := s.allowList.Remove(r.Context(), r.PathValue("uid")); err != nil {
		s.respondQueryError(w, "authorized delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// respondQueryError maps service errors on the read/CRUD paths to HTTP
// statuses.  Missing parameters and validation failures are the caller's
// fault; everything else is a 500.
func (s *Server) respondQueryError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrMissingParameters):
		writeError(w, http.StatusBadRequest, "missing_parameters", err.Error())
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error(op+" error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}
