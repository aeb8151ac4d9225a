// Package neopool implements the telemetry mapping and entity-state
// synchronization engine for a Tasmota-flashed Sugar Valley NeoPool
// pool controller.
//
// The controller publishes one JSON telemetry document per reporting
// interval on tele/{topic}/SENSOR and its liveness on tele/{topic}/LWT.
// This package maps fields of that document onto typed entities
// (sensors, binary sensors, switches, numbers, buttons, selects) and
// translates entity actions into plain-string commands published on
// cmnd/{topic}/{command}.
//
// # Pipeline
//
// Inbound:
//
//	MQTT message -> Entity -> Resolve (dotted path) -> coercion/transform
//	             -> cached value -> Sink notification
//
// Outbound:
//
//	action (TurnOn/SetValue/Press/SelectOption) -> FormatCommand
//	       -> Transport.Publish
//
// # Absence semantics
//
// Malformed JSON, missing paths, and undecodable values are expected
// and frequent. They never raise errors and never clear previously
// cached state; the entity simply skips the update. Zero is a valid
// value, not absence.
//
// # Availability
//
// Every entity of a device listens independently on the shared LWT
// topic. The exact payload "Online" marks the entity available;
// anything else marks it unavailable. Every liveness message is
// forwarded to the sink, even when the flag did not change. Buttons
// are stateless actuators and always report available.
package neopool
