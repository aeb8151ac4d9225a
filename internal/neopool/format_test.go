package neopool

import "testing"

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		step     float64
		template string
		want     string
	}{
		{name: "integer step renders integer", value: 750.0, step: 1, want: "750"},
		{name: "whole float step renders integer", value: 750.0, step: 1.0, want: "750"},
		{name: "fractional step renders natural float", value: 7.25, step: 0.1, want: "7.25"},
		{name: "fractional step single decimal", value: 7.2, step: 0.1, want: "7.2"},
		{name: "template substitution", value: 60.0, step: 1, template: "{value} %", want: "60 %"},
		{name: "template with fractional step", value: 7.5, step: 0.5, template: "pH {value}", want: "pH 7.5"},
		{name: "zero value integer step", value: 0, step: 1, want: "0"},
		{name: "large integer step", value: 700, step: 10, want: "700"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCommand(tt.value, tt.step, tt.template)
			if got != tt.want {
				t.Errorf("FormatCommand(%v, %v, %q) = %q, want %q",
					tt.value, tt.step, tt.template, got, tt.want)
			}
		})
	}
}
