package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/history"
)

const (
	tempEntityID   = "neopool_mqtt_ABC123_water_temperature"
	switchEntityID = "neopool_mqtt_ABC123_filtration"
	numberEntityID = "neopool_mqtt_ABC123_redox_setpoint"
	selectEntityID = "neopool_mqtt_ABC123_filtration_mode_select"
	buttonEntityID = "neopool_mqtt_ABC123_clear_error"
)

func TestListEntities(t *testing.T) {
	s, transport := newTestServer(t, nil)
	transport.deliver(t, "tele/SmartPool/LWT", "Online")
	transport.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Temperature": 28.5}}`)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/entities/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)

	entities, ok := body["entities"].([]any)
	if !ok || len(entities) == 0 {
		t.Fatalf("entities = %v, want non-empty list", body["entities"])
	}
	if int(body["count"].(float64)) != len(entities) {
		t.Errorf("count = %v, want %d", body["count"], len(entities))
	}
}

func TestGetEntity(t *testing.T) {
	s, transport := newTestServer(t, nil)
	transport.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Temperature": 28.5}}`)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/entities/"+tempEntityID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	entity, ok := body["entity"].(map[string]any)
	if !ok {
		t.Fatalf("entity missing from body: %v", body)
	}
	if entity["unique_id"] != tempEntityID {
		t.Errorf("unique_id = %v, want %s", entity["unique_id"], tempEntityID)
	}
	if entity["value"] != 28.5 {
		t.Errorf("value = %v, want 28.5", entity["value"])
	}
}

func TestGetEntity_NotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/entities/neopool_mqtt_ABC123_no_such", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetEntity_SelectIncludesOptions(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/entities/"+selectEntityID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	options, ok := body["options"].([]any)
	if !ok || len(options) == 0 {
		t.Fatalf("options = %v, want non-empty list", body["options"])
	}
	if options[0] != "Manual" {
		t.Errorf("options[0] = %v, want Manual (raw code order)", options[0])
	}
}

func TestGetEntityHistory(t *testing.T) {
	hist := &fakeHistory{entries: []history.Entry{
		{ID: 2, EntityID: tempEntityID, State: "28.5", Available: true, RecordedAt: time.Now().UTC()},
		{ID: 1, EntityID: tempEntityID, State: "28.0", Available: true, RecordedAt: time.Now().UTC().Add(-time.Hour)},
		{ID: 3, EntityID: switchEntityID, State: "on", Available: true, RecordedAt: time.Now().UTC()},
	}}
	s, _ := newTestServer(t, hist)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/entities/"+tempEntityID+"/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if int(body["count"].(float64)) != 2 {
		t.Errorf("count = %v, want 2 (other entities excluded)", body["count"])
	}
}

func TestGetEntityHistory_Unavailable(t *testing.T) {
	s, _ := newTestServer(t, nil) // no history repository

	rec := doRequest(t, s, http.MethodGet, "/api/v1/entities/"+tempEntityID+"/history", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestGetEntityHistory_InvalidLimit(t *testing.T) {
	s, _ := newTestServer(t, &fakeHistory{})

	for _, limit := range []string{"abc", "-1", "0", "9999"} {
		rec := doRequest(t, s, http.MethodGet,
			"/api/v1/entities/"+tempEntityID+"/history?limit="+limit, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit %q: status = %d, want 400", limit, rec.Code)
		}
	}
}

func TestEntityCommand_TurnOn(t *testing.T) {
	s, transport := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+switchEntityID+"/command", `{"action": "turn_on"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	msg := transport.lastPublished(t)
	if msg.topic != "cmnd/SmartPool/NPFiltration" || msg.payload != "1" {
		t.Errorf("published %+v, want NPFiltration payload 1", msg)
	}
}

func TestEntityCommand_SetValue(t *testing.T) {
	s, transport := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+numberEntityID+"/command", `{"action": "set_value", "value": 750}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	msg := transport.lastPublished(t)
	if msg.topic != "cmnd/SmartPool/NPRedox" || msg.payload != "750" {
		t.Errorf("published %+v, want NPRedox payload 750", msg)
	}
}

func TestEntityCommand_SetValueRequiresValue(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+numberEntityID+"/command", `{"action": "set_value"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEntityCommand_SelectOption(t *testing.T) {
	s, transport := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+selectEntityID+"/command", `{"action": "select_option", "option": "Auto"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	msg := transport.lastPublished(t)
	if msg.topic != "cmnd/SmartPool/NPFiltrationmode" || msg.payload != "1" {
		t.Errorf("published %+v, want NPFiltrationmode payload 1", msg)
	}
}

func TestEntityCommand_UnknownOption(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+selectEntityID+"/command", `{"action": "select_option", "option": "Turbo"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEntityCommand_Press(t *testing.T) {
	s, transport := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+buttonEntityID+"/command", `{"action": "press"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	msg := transport.lastPublished(t)
	if msg.topic != "cmnd/SmartPool/NPEscape" || msg.payload != "" {
		t.Errorf("published %+v, want NPEscape with empty payload", msg)
	}
}

func TestEntityCommand_UnsupportedAction(t *testing.T) {
	s, _ := newTestServer(t, nil)

	// turn_on against a read-only sensor
	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+tempEntityID+"/command", `{"action": "turn_on"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEntityCommand_UnknownAction(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+switchEntityID+"/command", `{"action": "explode"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEntityCommand_InvalidBody(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+switchEntityID+"/command", "not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEntityCommand_PublishFailure(t *testing.T) {
	s, transport := newTestServer(t, nil)
	transport.publishErr = errors.New("broker unreachable")

	rec := doRequest(t, s, http.MethodPost,
		"/api/v1/entities/"+switchEntityID+"/command", `{"action": "turn_on"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
