package neopool

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Resolve walks a dotted path through a nested telemetry document and
// returns the terminal node.
//
// The document is the result of decoding JSON into `any`: nested
// map[string]any, []any, and scalars. Path segments consisting only of
// decimal digits are sequence indices; every other segment is a map key.
//
//	Resolve(doc, "NeoPool.pH.Data")    // map descent
//	Resolve(doc, "NeoPool.Relay.State.1") // index into an array
//
// Absence is the normal case, not an error: a missing key, an
// out-of-bounds index, descending into a scalar, or a JSON null at any
// point returns ok=false. The terminal value is returned unmodified and
// may itself be a nested structure.
func Resolve(doc any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	node := doc
	for _, segment := range strings.Split(path, ".") {
		if node == nil {
			return nil, false
		}

		if isDigits(segment) {
			seq, ok := node.([]any)
			if !ok {
				return nil, false
			}
			idx, err := strconv.Atoi(segment)
			if err != nil || idx >= len(seq) {
				return nil, false
			}
			node = seq[idx]
			continue
		}

		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[segment]
		if !ok {
			return nil, false
		}
	}

	if node == nil {
		// A stored JSON null carries no value.
		return nil, false
	}
	return node, true
}

// isDigits reports whether s is non-empty and consists only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseJSONPayload decodes one telemetry payload into a document
// suitable for Resolve. Malformed or empty payloads return ok=false;
// they are dropped by callers without logging an error since Tasmota
// occasionally publishes partial buffers.
func ParseJSONPayload(payload []byte) (any, bool) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, false
	}
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, false
	}
	return doc, true
}
