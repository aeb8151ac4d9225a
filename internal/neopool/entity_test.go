package neopool

import (
	"errors"
	"sync"
	"testing"
)

// recordingSink captures notifications for assertions.
type recordingSink struct {
	mu           sync.Mutex
	states       []Snapshot
	availability []Snapshot
}

func (s *recordingSink) StateChanged(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, snap)
}

func (s *recordingSink) AvailabilityChanged(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.availability = append(s.availability, snap)
}

func (s *recordingSink) stateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *recordingSink) availabilityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.availability)
}

func (s *recordingSink) lastState(t *testing.T) Snapshot {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.states) == 0 {
		t.Fatal("no state notifications recorded")
	}
	return s.states[len(s.states)-1]
}

func testDevice() Device {
	return Device{Name: "NeoPool", Topic: "SmartPool", NodeID: "ABC123"}
}

// newTestEntity wires an entity over a dispatcher-backed fake broker.
func newTestEntity(t *testing.T, desc Descriptor) (*Entity, *fakeBroker, *recordingSink) {
	t.Helper()
	broker := newFakeBroker()
	sink := &recordingSink{}
	e := NewEntity(desc, testDevice(), NewDispatcher(broker), sink)
	return e, broker, sink
}

func TestEntity_UniqueID(t *testing.T) {
	e, _, _ := newTestEntity(t, Descriptor{
		Key: "water_temperature", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})
	want := "neopool_mqtt_ABC123_water_temperature"
	if got := e.UniqueID(); got != want {
		t.Errorf("UniqueID() = %q, want %q", got, want)
	}
}

func TestEntity_AttachSubscribesTopics(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	want := map[string]bool{"tele/SmartPool/LWT": true, "tele/SmartPool/SENSOR": true}
	for _, topic := range broker.subscribes {
		delete(want, topic)
	}
	if len(want) != 0 {
		t.Errorf("missing subscriptions: %v (got %v)", want, broker.subscribes)
	}
	if e.SubscriptionCount() != 2 {
		t.Errorf("SubscriptionCount() = %d, want 2", e.SubscriptionCount())
	}
}

func TestEntity_ButtonSubscribesLivenessOnly(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "clear_error", Kind: KindButton, Command: CmdEscape,
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if len(broker.subscribes) != 1 || broker.subscribes[0] != "tele/SmartPool/LWT" {
		t.Errorf("subscribes = %v, want only the LWT topic", broker.subscribes)
	}
}

func TestEntity_InitiallyUnavailable(t *testing.T) {
	e, _, _ := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if e.Available() {
		t.Error("Available() = true before any liveness signal, want false")
	}
	if e.Value() != nil {
		t.Errorf("Value() = %v before any telemetry, want nil", e.Value())
	}
}

func TestEntity_Liveness(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		wantAvailable bool
	}{
		{name: "online", payload: "Online", wantAvailable: true},
		{name: "offline", payload: "Offline", wantAvailable: false},
		{name: "unrecognized payload means offline", payload: "Rebooting", wantAvailable: false},
		{name: "empty payload means offline", payload: "", wantAvailable: false},
		{name: "case matters", payload: "online", wantAvailable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, broker, sink := newTestEntity(t, Descriptor{
				Key: "test", Kind: KindSensor, StatePath: "NeoPool.Temperature",
			})
			if err := e.Attach(); err != nil {
				t.Fatalf("Attach() error = %v", err)
			}

			broker.deliver(t, "tele/SmartPool/LWT", tt.payload)

			if e.Available() != tt.wantAvailable {
				t.Errorf("Available() = %v, want %v", e.Available(), tt.wantAvailable)
			}
			if sink.availabilityCount() != 1 {
				t.Errorf("availability notifications = %d, want 1", sink.availabilityCount())
			}
		})
	}
}

func TestEntity_LivenessNotifiesWithoutDeduplication(t *testing.T) {
	e, broker, sink := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/LWT", "Online")
	broker.deliver(t, "tele/SmartPool/LWT", "Online")
	broker.deliver(t, "tele/SmartPool/LWT", "Offline")

	if sink.availabilityCount() != 3 {
		t.Errorf("availability notifications = %d, want 3 (one per message)", sink.availabilityCount())
	}
}

func TestEntity_TelemetryUpdates(t *testing.T) {
	e, broker, sink := newTestEntity(t, Descriptor{
		Key: "water_temperature", Kind: KindSensor,
		StatePath: "NeoPool.Temperature", Transform: FloatValue(),
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Temperature": 28.5}}`)

	if got := e.Value(); got != 28.5 {
		t.Errorf("Value() = %v, want 28.5", got)
	}
	if !e.Available() {
		t.Error("Available() = false after valid telemetry, want true")
	}
	if sink.stateCount() != 1 {
		t.Errorf("state notifications = %d, want 1", sink.stateCount())
	}
}

func TestEntity_MalformedJSONIsSilent(t *testing.T) {
	e, broker, sink := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/SENSOR", "not valid json")

	if e.Value() != nil {
		t.Errorf("Value() = %v after malformed payload, want nil", e.Value())
	}
	if sink.stateCount() != 0 {
		t.Errorf("state notifications = %d after malformed payload, want 0", sink.stateCount())
	}
}

func TestEntity_AbsentPathIsSilent(t *testing.T) {
	e, broker, sink := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindSensor, StatePath: "NeoPool.NonExistent.Path",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Other": "data"}}`)

	if e.Value() != nil {
		t.Errorf("Value() = %v, want nil", e.Value())
	}
	if sink.stateCount() != 0 {
		t.Errorf("state notifications = %d, want 0", sink.stateCount())
	}
}

func TestEntity_ZeroIsAValidValue(t *testing.T) {
	e, broker, sink := newTestEntity(t, Descriptor{
		Key: "filtration", Kind: KindSwitch,
		StatePath: "NeoPool.Filtration.State", Command: CmdFiltration,
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Filtration": {"State": 0}}}`)

	if got := e.Value(); got != false {
		t.Errorf("Value() = %v, want false (zero decodes, it is not absence)", got)
	}
	if sink.stateCount() != 1 {
		t.Errorf("state notifications = %d, want 1", sink.stateCount())
	}
}

func TestEntity_TransformRejectionKeepsCachedValue(t *testing.T) {
	e, broker, sink := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindBinarySensor, StatePath: "NeoPool.Modules.pH",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Modules": {"pH": 1}}}`)
	if got := e.Value(); got != true {
		t.Fatalf("Value() = %v, want true", got)
	}

	// 2 is ambiguous for a bit field: no update, no notification.
	broker.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Modules": {"pH": 2}}}`)

	if got := e.Value(); got != true {
		t.Errorf("Value() = %v after ambiguous bit, want retained true", got)
	}
	if sink.stateCount() != 1 {
		t.Errorf("state notifications = %d, want 1", sink.stateCount())
	}
}

func TestEntity_Inversion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "raw zero reports true", raw: "0", want: true},
		{name: "raw one reports false", raw: "1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, broker, _ := newTestEntity(t, Descriptor{
				Key: "hydrolysis_water_flow", Kind: KindBinarySensor,
				StatePath: "NeoPool.Hydrolysis.FL1", Inverted: true,
			})
			if err := e.Attach(); err != nil {
				t.Fatalf("Attach() error = %v", err)
			}

			broker.deliver(t, "tele/SmartPool/SENSOR",
				`{"NeoPool": {"Hydrolysis": {"FL1": `+tt.raw+`}}}`)

			if got := e.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntity_ArrayPathTelemetry(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "relay_filtration_state", Kind: KindBinarySensor,
		StatePath: "NeoPool.Relay.State.1",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Relay": {"State": [0, 1, 0, 0]}}}`)

	if got := e.Value(); got != true {
		t.Errorf("Value() = %v, want true (Relay.State[1] = 1)", got)
	}
}

func TestEntity_ButtonAlwaysAvailable(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "clear_error", Kind: KindButton, Command: CmdEscape,
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if !e.Available() {
		t.Error("Available() = false for button, want always true")
	}

	broker.deliver(t, "tele/SmartPool/LWT", "Offline")

	if !e.Available() {
		t.Error("Available() = false for button after Offline, want still true")
	}
}

func TestEntity_DetachIdempotent(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	e.Detach()
	if e.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d after detach, want 0", e.SubscriptionCount())
	}
	if len(broker.unsubscribes) != 2 {
		t.Errorf("upstream unsubscribes = %d, want 2", len(broker.unsubscribes))
	}

	// Repeated detach, including with zero active subscriptions, is a no-op.
	e.Detach()
	e.Detach()
	if e.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", e.SubscriptionCount())
	}
	if len(broker.unsubscribes) != 2 {
		t.Errorf("upstream unsubscribes = %d after repeated detach, want 2", len(broker.unsubscribes))
	}
}

func TestEntity_DetachWithoutAttach(t *testing.T) {
	e, _, _ := newTestEntity(t, Descriptor{
		Key: "test", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})
	e.Detach() // must not panic
	if e.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d, want 0", e.SubscriptionCount())
	}
}

func TestEntity_SwitchCommands(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "filtration", Kind: KindSwitch,
		StatePath: "NeoPool.Filtration.State", Command: CmdFiltration,
		PayloadOn: "1", PayloadOff: "0",
	})

	if err := e.TurnOn(); err != nil {
		t.Fatalf("TurnOn() error = %v", err)
	}
	if err := e.TurnOff(); err != nil {
		t.Fatalf("TurnOff() error = %v", err)
	}

	if len(broker.published) != 2 {
		t.Fatalf("published count = %d, want 2", len(broker.published))
	}
	on, off := broker.published[0], broker.published[1]
	if on.topic != "cmnd/SmartPool/NPFiltration" || on.payload != "1" {
		t.Errorf("TurnOn published %+v", on)
	}
	if off.topic != "cmnd/SmartPool/NPFiltration" || off.payload != "0" {
		t.Errorf("TurnOff published %+v", off)
	}
	for _, msg := range broker.published {
		if msg.qos != 0 || msg.retained {
			t.Errorf("command published with qos=%d retained=%v, want qos=0 unretained", msg.qos, msg.retained)
		}
	}
}

func TestEntity_ButtonPress(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "clear_error", Kind: KindButton, Command: CmdEscape, Payload: "",
	})

	if err := e.Press(); err != nil {
		t.Fatalf("Press() error = %v", err)
	}

	if len(broker.published) != 1 {
		t.Fatalf("published count = %d, want 1", len(broker.published))
	}
	msg := broker.published[0]
	if msg.topic != "cmnd/SmartPool/NPEscape" || msg.payload != "" {
		t.Errorf("Press published %+v", msg)
	}
}

func TestEntity_SetValue(t *testing.T) {
	tests := []struct {
		name        string
		desc        Descriptor
		value       float64
		wantTopic   string
		wantPayload string
	}{
		{
			name: "fractional step keeps decimals",
			desc: Descriptor{
				Key: "ph_min", Kind: KindNumber, StatePath: "NeoPool.pH.Min",
				Command: CmdPHMin, Min: 0, Max: 14, Step: 0.1,
			},
			value:       7.2,
			wantTopic:   "cmnd/SmartPool/NPpHMin",
			wantPayload: "7.2",
		},
		{
			name: "integer step renders integer",
			desc: Descriptor{
				Key: "redox_setpoint", Kind: KindNumber, StatePath: "NeoPool.Redox.Setpoint",
				Command: CmdRedox, Min: 0, Max: 1000, Step: 1,
			},
			value:       750.0,
			wantTopic:   "cmnd/SmartPool/NPRedox",
			wantPayload: "750",
		},
		{
			name: "template wraps rendered value",
			desc: Descriptor{
				Key: "hydrolysis_setpoint", Kind: KindNumber,
				StatePath: "NeoPool.Hydrolysis.Percent.Setpoint",
				Command:   CmdHydrolysis, CommandTemplate: "{value} %",
				Min: 0, Max: 100, Step: 1,
			},
			value:       60.0,
			wantTopic:   "cmnd/SmartPool/NPHydrolysis",
			wantPayload: "60 %",
		},
		{
			name: "value clamped to max",
			desc: Descriptor{
				Key: "redox_setpoint", Kind: KindNumber, StatePath: "NeoPool.Redox.Setpoint",
				Command: CmdRedox, Min: 0, Max: 1000, Step: 1,
			},
			value:       1500,
			wantTopic:   "cmnd/SmartPool/NPRedox",
			wantPayload: "1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, broker, _ := newTestEntity(t, tt.desc)
			if err := e.SetValue(tt.value); err != nil {
				t.Fatalf("SetValue() error = %v", err)
			}
			if len(broker.published) != 1 {
				t.Fatalf("published count = %d, want 1", len(broker.published))
			}
			msg := broker.published[0]
			if msg.topic != tt.wantTopic || msg.payload != tt.wantPayload {
				t.Errorf("SetValue published %+v, want topic %q payload %q",
					msg, tt.wantTopic, tt.wantPayload)
			}
		})
	}
}

func TestEntity_SelectOption(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "filtration_mode_select", Kind: KindSelect,
		StatePath: "NeoPool.Filtration.Mode", Command: CmdFiltrationMode,
		Transform: IntLabel(FiltrationModeMap), Options: FiltrationModeMap,
	})

	if err := e.SelectOption("Auto"); err != nil {
		t.Fatalf("SelectOption() error = %v", err)
	}
	if len(broker.published) != 1 {
		t.Fatalf("published count = %d, want 1", len(broker.published))
	}
	msg := broker.published[0]
	if msg.topic != "cmnd/SmartPool/NPFiltrationmode" || msg.payload != "1" {
		t.Errorf("SelectOption published %+v, want payload \"1\"", msg)
	}

	err := e.SelectOption("Turbo")
	if !errors.Is(err, ErrUnknownOption) {
		t.Errorf("SelectOption(Turbo) error = %v, want ErrUnknownOption", err)
	}
}

func TestEntity_SelectStateFromTelemetry(t *testing.T) {
	e, broker, _ := newTestEntity(t, Descriptor{
		Key: "filtration_speed_select", Kind: KindSelect,
		StatePath: "NeoPool.Filtration.Speed", Command: CmdFiltrationSpeed,
		Transform: IntLabel(FiltrationSpeedMap), Options: FiltrationSpeedMap,
	})
	if err := e.Attach(); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	broker.deliver(t, "tele/SmartPool/SENSOR", `{"NeoPool": {"Filtration": {"Speed": 2}}}`)

	if got := e.Value(); got != "Medium" {
		t.Errorf("Value() = %v, want %q", got, "Medium")
	}
}

func TestEntity_Options(t *testing.T) {
	e, _, _ := newTestEntity(t, Descriptor{
		Key: "boost_mode", Kind: KindSelect,
		StatePath: "NeoPool.Hydrolysis.Boost", Command: CmdBoost,
		Options: BoostModeMap,
	})

	got := e.Options()
	want := []string{"Off", "On", "On (Redox)"}
	if len(got) != len(want) {
		t.Fatalf("Options() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Options()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntity_UnsupportedActions(t *testing.T) {
	e, _, _ := newTestEntity(t, Descriptor{
		Key: "water_temperature", Kind: KindSensor, StatePath: "NeoPool.Temperature",
	})

	if err := e.TurnOn(); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("TurnOn() on sensor error = %v, want ErrUnsupportedAction", err)
	}
	if err := e.TurnOff(); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("TurnOff() on sensor error = %v, want ErrUnsupportedAction", err)
	}
	if err := e.Press(); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("Press() on sensor error = %v, want ErrUnsupportedAction", err)
	}
	if err := e.SetValue(1); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("SetValue() on sensor error = %v, want ErrUnsupportedAction", err)
	}
	if err := e.SelectOption("x"); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("SelectOption() on sensor error = %v, want ErrUnsupportedAction", err)
	}
}
