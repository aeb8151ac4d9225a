package neopool

// Tasmota NeoPool commands. The full command reference lives in the
// Tasmota xsns_83_neopool driver; the bridge only issues the subset
// backing its writable entities.
const (
	CmdFiltration      = "NPFiltration"
	CmdFiltrationMode  = "NPFiltrationmode"
	CmdFiltrationSpeed = "NPFiltrationspeed"
	CmdLight           = "NPLight"
	CmdAux1            = "NPAux1"
	CmdAux2            = "NPAux2"
	CmdAux3            = "NPAux3"
	CmdAux4            = "NPAux4"
	CmdBoost           = "NPBoost"
	CmdPHMin           = "NPpHMin"
	CmdPHMax           = "NPpHMax"
	CmdRedox           = "NPRedox"
	CmdHydrolysis      = "NPHydrolysis"
	CmdEscape          = "NPEscape"
)

// JSON paths into the telemetry document for fields referenced outside
// the catalog tables (device identification, liveness-adjacent data).
const (
	PathType            = "NeoPool.Type"
	PathTemperature     = "NeoPool.Temperature"
	PathPHData          = "NeoPool.pH.Data"
	PathPHState         = "NeoPool.pH.State"
	PathRedoxData       = "NeoPool.Redox.Data"
	PathHydrolysisData  = "NeoPool.Hydrolysis.Data"
	PathFiltrationState = "NeoPool.Filtration.State"
	PathPowerunitNodeID = "NeoPool.Powerunit.NodeID"
)

// Liveness payloads published on tele/{topic}/LWT by Tasmota.
const (
	PayloadOnline  = "Online"
	PayloadOffline = "Offline"
)

// UniqueIDPrefix is the default prefix for persistent entity IDs:
// {prefix}{nodeid}_{key}. It must never change; it backs durable
// entity identity across catalog revisions.
const UniqueIDPrefix = "neopool_mqtt_"

// PHStateMap decodes NeoPool.pH.State alarm codes.
var PHStateMap = map[int]string{
	0: "No Alarm",
	1: "pH Too High",
	2: "pH Too Low",
	3: "Pump Stopped (Working Time Exceeded)",
	4: "Pump Stopped (pH Higher Than Setpoint)",
	5: "Pump Stopped (pH Lower Than Setpoint)",
	6: "Tank Level Low",
}

// PHPumpMap decodes NeoPool.pH.Pump states.
var PHPumpMap = map[int]string{
	0: "Off",
	1: "On",
	2: "Paused",
}

// FiltrationModeMap decodes NeoPool.Filtration.Mode. The keys double
// as command payloads for the filtration mode select.
var FiltrationModeMap = map[int]string{
	0:  "Manual",
	1:  "Auto",
	2:  "Heating",
	3:  "Smart",
	4:  "Intelligent",
	13: "Backwash",
}

// FiltrationSpeedMap decodes NeoPool.Filtration.Speed.
var FiltrationSpeedMap = map[int]string{
	1: "Slow",
	2: "Medium",
	3: "Fast",
}

// HydrolysisStateMap decodes the textual NeoPool.Hydrolysis.State field.
var HydrolysisStateMap = map[string]string{
	"OFF":  "Off",
	"FLOW": "No Flow",
	"POL1": "Polarization 1",
	"POL2": "Polarization 2",
}

// BoostModeMap decodes the hydrolysis boost mode.
var BoostModeMap = map[int]string{
	0: "Off",
	1: "On",
	2: "On (Redox)",
}

// RelayNames lists the controller's relay assignments in board order.
// Indices match NeoPool.Relay.State.
var RelayNames = []string{
	"pH",
	"Filtration",
	"Light",
	"AUX1",
	"AUX2",
	"AUX3",
	"AUX4",
}
