package neopool

import (
	"math"
	"strconv"
	"strings"
)

// FormatCommand renders a numeric entity value as an outbound command
// payload.
//
// The controller's firmware is picky about number formats: commands
// with integer semantics (step 1, 1.0, ...) must not carry a decimal
// point, while fractional setpoints (step 0.1) use the value's natural
// decimal representation without padding. An optional template with a
// {value} placeholder wraps the rendered number, e.g. "{value} %"
// with 60.0 and step 1 produces "60 %".
func FormatCommand(value, step float64, template string) string {
	var rendered string
	if step == math.Trunc(step) {
		rendered = strconv.FormatInt(int64(value), 10)
	} else {
		rendered = strconv.FormatFloat(value, 'f', -1, 64)
	}

	if template != "" {
		return strings.ReplaceAll(template, "{value}", rendered)
	}
	return rendered
}
