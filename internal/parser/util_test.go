package parser

import (
	"testing"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		wantErr  bool
	}{
		{"3,69", 3.69, false},
		{"1234,56", 1234.56, false},
		{"1.234,56", 1234.56, false},
		{"10,55€", 10.55, false},
		{"0,645", 0.645, false},
		{"2", 2, false},
		{" 19,53 ", 19.53, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDecimal(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"25/08/2025", "25/08/2025"},
		{"16-08-2025", "16/08/2025"},
	}

	for _, tt := range tests {
		if got := normalizeDate(tt.input); got != tt.expected {
			t.Errorf("normalizeDate(%q): got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsAllUpper(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"PEIXARIA", true},
		{"PADARIA/PASTELARIA", true},
		{"MERCEARIA + PET FOOD", true},
		{"FRUTAS E VEGETAIS", true},
		{"TRANCHE SALMÃO", true},
		{"Regular text", false},
		{"Poupança Imediata", false},
		{"123 + 456", false}, // no letters at all
		{"", false},
	}

	for _, tt := range tests {
		if got := isAllUpper(tt.input); got != tt.expected {
			t.Errorf("isAllUpper(%q): got %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestRound2(t *testing.T) {
	if got := round2(61.20 + 5.31); got != 66.51 {
		t.Errorf("round2(61.20+5.31): got %v, want 66.51", got)
	}
	if got := round2(24.53 - 19.53); got != 5.00 {
		t.Errorf("round2(24.53-19.53): got %v, want 5.00", got)
	}
}
