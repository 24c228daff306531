package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"sync_relay/internal/broadcast"
	"sync_relay/internal/domain"
)

type queryRequest struct {
	DataSourceID string          `json:"data_source_id"`
	Filter       json.RawMessage `json:"filter,omitempty"`
	Sorts        json.RawMessage `json:"sorts,omitempty"`
}

type queryResponse struct {
	Results      []domain.Record `json:"results"`
	Changes      []domain.Record `json:"changes"`
	ChangesCount int             `json:"changes_count"`
	LastSyncedAt time.Time       `json:"last_synced_at"`
}

type changesResponse struct {
	Changes      []domain.Record `json:"changes"`
	ChangesCount int             `json:"changes_count"`
	LastSyncedAt time.Time       `json:"last_synced_at"`
}

type createPageRequest struct {
	DataSourceID string          `json:"data_source_id"`
	Properties   json.RawMessage `json:"properties"`
}

type statusResponse struct {
	Sources           []domain.SourceStatus `json:"sources"`
	ActiveSubscribers int                   `json:"active_subscribers"`
	UptimeSeconds     float64               `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	token, ok := s.credential(w, r)
	if !ok {
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindMissingParameter, "invalid request body", "")
		return
	}
	if req.DataSourceID == "" {
		writeError(w, http.StatusBadRequest, kindMissingParameter, "data_source_id is required", "")
		return
	}

	result, err := s.service.Query(r.Context(), token, req.DataSourceID, req.Filter, req.Sorts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Results:      emptyIfNil(result.Results),
		Changes:      emptyIfNil(result.Changes),
		ChangesCount: len(result.Changes),
		LastSyncedAt: result.LastSyncedAt,
	})
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	token, ok := s.credential(w, r)
	if !ok {
		return
	}

	dataSourceID := chi.URLParam(r, "dataSourceID")
	if dataSourceID == "" {
		writeError(w, http.StatusBadRequest, kindMissingParameter, "data source id is required", "")
		return
	}

	result, err := s.service.Changes(r.Context(), token, dataSourceID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, changesResponse{
		Changes:      emptyIfNil(result.Changes),
		ChangesCount: len(result.Changes),
		LastSyncedAt: result.LastSyncedAt,
	})
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	token, ok := s.credential(w, r)
	if !ok {
		return
	}

	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindMissingParameter, "invalid request body", "")
		return
	}
	if req.DataSourceID == "" {
		writeError(w, http.StatusBadRequest, kindMissingParameter, "data_source_id is required", "")
		return
	}
	if len(req.Properties) == 0 {
		writeError(w, http.StatusBadRequest, kindMissingParameter, "properties is required", "")
		return
	}

	rec, err := s.service.CreatePage(r.Context(), token, req.DataSourceID, req.Properties)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	sources, subscribers, uptime := s.service.Status()

	writeJSON(w, http.StatusOK, statusResponse{
		Sources:           sources,
		ActiveSubscribers: subscribers,
		UptimeSeconds:     uptime.Seconds(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sub := broadcast.NewWSSubscriber(conn)
	s.registry.Add(sub)
	s.logger.Info("subscriber connected",
		"subscriber_id", sub.ID(),
		"active", s.registry.Len(),
	)

	go s.readUntilClosed(conn, sub)
}

// readUntilClosed drains inbound frames only to notice close or error;
// client payloads are ignored.
func (s *Server) readUntilClosed(conn *websocket.Conn, sub *broadcast.WSSubscriber) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.registry.Remove(sub.ID())
			_ = sub.Close()
			s.logger.Info("subscriber disconnected",
				"subscriber_id", sub.ID(),
				"active", s.registry.Len(),
			)
			return
		}
	}
}

// credential resolves the request token: a bearer header wins, the
// configured default is the fallback. No token at all is rejected before
// any upstream call.
func (s *Server) credential(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	if token == "" {
		token = s.defaultToken
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, kindMissingCredential, "no access token provided", "")
		return "", false
	}
	return token, true
}

func emptyIfNil(records []domain.Record) []domain.Record {
	if records == nil {
		return []domain.Record{}
	}
	return records
}
