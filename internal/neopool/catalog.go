package neopool

// The entity catalog: one hand-authored row per exposed field,
// mirroring the Tasmota NeoPool telemetry document. Rows are immutable;
// they parameterize one Entity each per device. Keys are load-bearing
// (they build unique IDs) and must never be renamed.

// SensorDescriptors lists the read-only measurement entities.
var SensorDescriptors = []Descriptor{
	{
		Key:         "water_temperature",
		Name:        "Water Temperature",
		Kind:        KindSensor,
		StatePath:   "NeoPool.Temperature",
		Transform:   FloatValue(),
		Unit:        "°C",
		DeviceClass: "temperature",
	},
	{
		Key:         "ph_data",
		Name:        "pH",
		Kind:        KindSensor,
		StatePath:   "NeoPool.pH.Data",
		Transform:   FloatValue(),
		DeviceClass: "ph",
	},
	{
		Key:       "ph_state",
		Name:      "pH Alarm",
		Kind:      KindSensor,
		StatePath: "NeoPool.pH.State",
		Transform: IntLabel(PHStateMap),
	},
	{
		Key:       "ph_pump",
		Name:      "pH Pump",
		Kind:      KindSensor,
		StatePath: "NeoPool.pH.Pump",
		Transform: IntLabel(PHPumpMap),
	},
	{
		Key:         "redox_data",
		Name:        "Redox",
		Kind:        KindSensor,
		StatePath:   "NeoPool.Redox.Data",
		Transform:   FloatValue(),
		Unit:        "mV",
		DeviceClass: "voltage",
	},
	{
		Key:       "hydrolysis_data",
		Name:      "Hydrolysis",
		Kind:      KindSensor,
		StatePath: "NeoPool.Hydrolysis.Data",
		Transform: FloatValue(),
	},
	{
		Key:       "hydrolysis_percent",
		Name:      "Hydrolysis Level",
		Kind:      KindSensor,
		StatePath: "NeoPool.Hydrolysis.Percent.Data",
		Transform: FloatValue(),
		Unit:      "%",
	},
	{
		Key:       "hydrolysis_state",
		Name:      "Hydrolysis State",
		Kind:      KindSensor,
		StatePath: "NeoPool.Hydrolysis.State",
		Transform: StringLabel(HydrolysisStateMap),
	},
	{
		Key:         "hydrolysis_runtime_total",
		Name:        "Hydrolysis Runtime Total",
		Kind:        KindSensor,
		StatePath:   "NeoPool.Hydrolysis.Runtime.Total",
		Transform:   RuntimeHours(),
		Unit:        "h",
		DeviceClass: "duration",
	},
	{
		Key:       "filtration_mode",
		Name:      "Filtration Mode",
		Kind:      KindSensor,
		StatePath: "NeoPool.Filtration.Mode",
		Transform: IntLabel(FiltrationModeMap),
	},
	{
		Key:       "filtration_speed",
		Name:      "Filtration Speed",
		Kind:      KindSensor,
		StatePath: "NeoPool.Filtration.Speed",
		Transform: IntLabel(FiltrationSpeedMap),
	},
	{
		Key:        "controller_type",
		Name:       "Controller Type",
		Kind:       KindSensor,
		StatePath:  "NeoPool.Type",
		Diagnostic: true,
	},
	{
		Key:        "powerunit_nodeid",
		Name:       "Powerunit NodeID",
		Kind:       KindSensor,
		StatePath:  "NeoPool.Powerunit.NodeID",
		Diagnostic: true,
	},
}

// BinarySensorDescriptors lists the on/off state entities. Inverted
// rows cover fields where 0 is the healthy reading.
var BinarySensorDescriptors = []Descriptor{
	{
		Key:       "modules_ph",
		Name:      "pH Module",
		Kind:      KindBinarySensor,
		StatePath: "NeoPool.Modules.pH",
	},
	{
		Key:       "modules_redox",
		Name:      "Redox Module",
		Kind:      KindBinarySensor,
		StatePath: "NeoPool.Modules.Redox",
	},
	{
		Key:       "modules_hydrolysis",
		Name:      "Hydrolysis Module",
		Kind:      KindBinarySensor,
		StatePath: "NeoPool.Modules.Hydrolysis",
	},
	{
		Key:       "modules_chlorine",
		Name:      "Chlorine Module",
		Kind:      KindBinarySensor,
		StatePath: "NeoPool.Modules.Chlorine",
	},
	{
		Key:       "modules_conductivity",
		Name:      "Conductivity Module",
		Kind:      KindBinarySensor,
		StatePath: "NeoPool.Modules.Conductivity",
	},
	{
		Key:         "hydrolysis_water_flow",
		Name:        "Water Flow",
		Kind:        KindBinarySensor,
		StatePath:   "NeoPool.Hydrolysis.FL1",
		Inverted:    true, // FL1=0 means flow OK
		DeviceClass: "running",
	},
	{
		Key:         "ph_tank_level",
		Name:        "pH Tank Level",
		Kind:        KindBinarySensor,
		StatePath:   "NeoPool.pH.Tank",
		Inverted:    true, // Tank=0 means low
		DeviceClass: "problem",
	},
	{
		Key:       "relay_ph_state",
		Name:      "pH Relay",
		Kind:      KindBinarySensor,
		StatePath: "NeoPool.Relay.State.0",
	},
	{
		Key:         "relay_filtration_state",
		Name:        "Filtration Relay",
		Kind:        KindBinarySensor,
		StatePath:   "NeoPool.Relay.State.1",
		DeviceClass: "running",
	},
	{
		Key:       "relay_light_state",
		Name:      "Light Relay",
		Kind:      KindBinarySensor,
		StatePath: "NeoPool.Relay.State.2",
	},
}

// SwitchDescriptors lists the actuators with readable on/off state.
var SwitchDescriptors = []Descriptor{
	{
		Key:        "filtration",
		Name:       "Filtration",
		Kind:       KindSwitch,
		StatePath:  "NeoPool.Filtration.State",
		Command:    CmdFiltration,
		PayloadOn:  "1",
		PayloadOff: "0",
	},
	{
		Key:        "light",
		Name:       "Light",
		Kind:       KindSwitch,
		StatePath:  "NeoPool.Light",
		Command:    CmdLight,
		PayloadOn:  "1",
		PayloadOff: "0",
	},
	{
		Key:        "aux1",
		Name:       "AUX1",
		Kind:       KindSwitch,
		StatePath:  "NeoPool.Relay.Aux.0",
		Command:    CmdAux1,
		PayloadOn:  "1",
		PayloadOff: "0",
	},
	{
		Key:        "aux2",
		Name:       "AUX2",
		Kind:       KindSwitch,
		StatePath:  "NeoPool.Relay.Aux.1",
		Command:    CmdAux2,
		PayloadOn:  "1",
		PayloadOff: "0",
	},
	{
		Key:        "aux3",
		Name:       "AUX3",
		Kind:       KindSwitch,
		StatePath:  "NeoPool.Relay.Aux.2",
		Command:    CmdAux3,
		PayloadOn:  "1",
		PayloadOff: "0",
	},
	{
		Key:        "aux4",
		Name:       "AUX4",
		Kind:       KindSwitch,
		StatePath:  "NeoPool.Relay.Aux.3",
		Command:    CmdAux4,
		PayloadOn:  "1",
		PayloadOff: "0",
	},
}

// NumberDescriptors lists the writable setpoints.
var NumberDescriptors = []Descriptor{
	{
		Key:         "ph_min",
		Name:        "pH Min",
		Kind:        KindNumber,
		StatePath:   "NeoPool.pH.Min",
		Command:     CmdPHMin,
		Min:         0,
		Max:         14,
		Step:        0.1,
		DeviceClass: "ph",
	},
	{
		Key:         "ph_max",
		Name:        "pH Max",
		Kind:        KindNumber,
		StatePath:   "NeoPool.pH.Max",
		Command:     CmdPHMax,
		Min:         0,
		Max:         14,
		Step:        0.1,
		DeviceClass: "ph",
	},
	{
		Key:         "redox_setpoint",
		Name:        "Redox Setpoint",
		Kind:        KindNumber,
		StatePath:   "NeoPool.Redox.Setpoint",
		Command:     CmdRedox,
		Min:         0,
		Max:         1000,
		Step:        1,
		Unit:        "mV",
		DeviceClass: "voltage",
	},
	{
		Key:             "hydrolysis_setpoint",
		Name:            "Hydrolysis Setpoint",
		Kind:            KindNumber,
		StatePath:       "NeoPool.Hydrolysis.Percent.Setpoint",
		Command:         CmdHydrolysis,
		CommandTemplate: "{value} %",
		Min:             0,
		Max:             100,
		Step:            1,
		Unit:            "%",
	},
}

// ButtonDescriptors lists the stateless actuators.
var ButtonDescriptors = []Descriptor{
	{
		Key:     "clear_error",
		Name:    "Clear Error",
		Kind:    KindButton,
		Command: CmdEscape,
		Payload: "",
	},
}

// SelectDescriptors lists the mode selectors. State resolves through
// the option map's forward direction; the chosen label reverse-maps to
// the raw code for the command payload.
var SelectDescriptors = []Descriptor{
	{
		Key:       "filtration_mode_select",
		Name:      "Filtration Mode",
		Kind:      KindSelect,
		StatePath: "NeoPool.Filtration.Mode",
		Command:   CmdFiltrationMode,
		Transform: IntLabel(FiltrationModeMap),
		Options:   FiltrationModeMap,
	},
	{
		Key:       "filtration_speed_select",
		Name:      "Filtration Speed",
		Kind:      KindSelect,
		StatePath: "NeoPool.Filtration.Speed",
		Command:   CmdFiltrationSpeed,
		Transform: IntLabel(FiltrationSpeedMap),
		Options:   FiltrationSpeedMap,
	},
	{
		Key:       "boost_mode",
		Name:      "Boost Mode",
		Kind:      KindSelect,
		StatePath: "NeoPool.Hydrolysis.Boost",
		Command:   CmdBoost,
		Transform: IntLabel(BoostModeMap),
		Options:   BoostModeMap,
	},
}

// Catalog returns every descriptor across all platform kinds, in
// stable order.
func Catalog() []Descriptor {
	out := make([]Descriptor, 0,
		len(SensorDescriptors)+len(BinarySensorDescriptors)+len(SwitchDescriptors)+
			len(NumberDescriptors)+len(ButtonDescriptors)+len(SelectDescriptors))
	out = append(out, SensorDescriptors...)
	out = append(out, BinarySensorDescriptors...)
	out = append(out, SwitchDescriptors...)
	out = append(out, NumberDescriptors...)
	out = append(out, ButtonDescriptors...)
	out = append(out, SelectDescriptors...)
	return out
}
