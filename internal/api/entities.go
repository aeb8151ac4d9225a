package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/neopool"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
	maxURLParamLen      = 128
)

// Command actions accepted by the command endpoint.
const (
	ActionTurnOn       = "turn_on"
	ActionTurnOff      = "turn_off"
	ActionPress        = "press"
	ActionSetValue     = "set_value"
	ActionSelectOption = "select_option"
)

// commandRequest is the body of POST /entities/{id}/command.
type commandRequest struct {
	Action string   `json:"action"`
	Value  *float64 `json:"value,omitempty"`
	Option string   `json:"option,omitempty"`
}

// handleListEntities returns the current snapshot of every entity.
func (s *Server) handleListEntities(w http.ResponseWriter, _ *http.Request) {
	snapshots := s.bridge.Snapshots()
	writeJSON(w, http.StatusOK, map[string]any{
		"entities": snapshots,
		"count":    len(snapshots),
	})
}

// handleGetEntity returns one entity snapshot by unique ID. Select
// entities additionally list their selectable options.
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	entity, ok := s.lookupEntity(w, r)
	if !ok {
		return
	}

	snap := entity.Snapshot()
	body := map[string]any{
		"entity": snap,
	}
	if snap.Kind == neopool.KindSelect {
		body["options"] = entity.Options()
	}
	writeJSON(w, http.StatusOK, body)
}

// handleGetEntityHistory returns recent state transitions for an entity.
func (s *Server) handleGetEntityHistory(w http.ResponseWriter, r *http.Request) {
	entity, ok := s.lookupEntity(w, r)
	if !ok {
		return
	}

	limit, err := parseHistoryLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	since, err := parseSinceParam(r.URL.Query().Get("since"))
	if err != nil {
		writeBadRequest(w, "invalid since timestamp")
		return
	}

	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "history unavailable")
		return
	}

	entries, err := s.history.GetHistory(r.Context(), entity.UniqueID(), limit)
	if err != nil {
		writeInternalError(w, "failed to load entity history")
		return
	}

	if !since.IsZero() {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.RecordedAt.After(since) {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entity_id": entity.UniqueID(),
		"history":   entries,
		"count":     len(entries),
	})
}

// handleEntityCommand executes a command against a writable entity.
//
// The command is published to the MQTT broker; the controller's own
// telemetry confirms (or not) the effect. A broker publish failure maps
// to 502 since the bridge itself is healthy but the upstream is not.
func (s *Server) handleEntityCommand(w http.ResponseWriter, r *http.Request) {
	entity, ok := s.lookupEntity(w, r)
	if !ok {
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var err error
	switch req.Action {
	case ActionTurnOn:
		err = entity.TurnOn()
	case ActionTurnOff:
		err = entity.TurnOff()
	case ActionPress:
		err = entity.Press()
	case ActionSetValue:
		if req.Value == nil {
			writeBadRequest(w, "value is required for set_value")
			return
		}
		err = entity.SetValue(*req.Value)
	case ActionSelectOption:
		if req.Option == "" {
			writeBadRequest(w, "option is required for select_option")
			return
		}
		err = entity.SelectOption(req.Option)
	default:
		writeBadRequest(w, "unknown action: "+req.Action)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, neopool.ErrUnsupportedAction), errors.Is(err, neopool.ErrUnknownOption):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Warn("command publish failed",
				"entity", entity.UniqueID(),
				"action", req.Action,
				"error", err,
			)
			writeBadGateway(w, "command could not be delivered to the broker")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"entity_id": entity.UniqueID(),
		"action":    req.Action,
		"status":    "sent",
	})
}

// lookupEntity resolves the {id} URL parameter to an entity, writing
// the error response itself when resolution fails.
func (s *Server) lookupEntity(w http.ResponseWriter, r *http.Request) (*neopool.Entity, bool) {
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > maxURLParamLen {
		writeBadRequest(w, "invalid entity ID")
		return nil, false
	}

	entity, err := s.bridge.Entity(id)
	if err != nil {
		if errors.Is(err, neopool.ErrEntityNotFound) {
			writeNotFound(w, "entity not found")
			return nil, false
		}
		writeInternalError(w, "failed to look up entity")
		return nil, false
	}
	return entity, true
}

// parseHistoryLimit parses the limit query parameter with bounds enforcement.
func parseHistoryLimit(raw string) (int, error) {
	if raw == "" {
		return defaultHistoryLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit")
	}
	if limit > maxHistoryLimit {
		return 0, fmt.Errorf("limit exceeds maximum")
	}

	return limit, nil
}

// parseSinceParam parses the since parameter as RFC3339.
func parseSinceParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
