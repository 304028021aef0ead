package extractor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTextQuality(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		min   float64
		max   float64
	}{
		{"clean receipt text", []string{"PEIXARIA\nC TRANCHE SALMÃO UN150 2,000 X 3,69 7,38"}, 0.95, 1.0},
		{"accented portuguese", []string{"Data de emissão: 25/08/2025 Poupança"}, 0.95, 1.0},
		{"binary garbage", []string{"\x01\x02\x7f\x80\x81\x01\x02\x7f\x80\x81"}, 0.0, 0.3},
		{"empty", nil, 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := textQuality(tt.pages)
			if got < tt.min || got > tt.max {
				t.Errorf("textQuality: got %f, want within [%f, %f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestIsReadableText(t *testing.T) {
	receipt := `PD PRELADA
Pingo Doce - Distribuição Alimentar, S.A.
Artigos
PEIXARIA
C TRANCHE SALMÃO UN150 2,000 X 3,69 7,38
Resumo
COMPRA 10,55€`

	if !isReadableText([]string{receipt}) {
		t.Error("real receipt text should be readable")
	}

	if isReadableText([]string{"short"}) {
		t.Error("too-short text should not pass")
	}

	// Long and ASCII-clean, but nothing receipt-shaped in it.
	filler := strings.Repeat("lorem ipsum dolor sit amet ", 10)
	if isReadableText([]string{filler}) {
		t.Error("text without any receipt vocabulary should not pass")
	}
}

func TestExtractText_MissingFile(t *testing.T) {
	if _, err := ExtractText("/nonexistent/receipt.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractBytes_NotAPDF(t *testing.T) {
	// The in-memory path stages the bytes itself; garbage data must surface
	// as an error, not a panic.
	if _, err := ExtractBytes([]byte("this is not a pdf")); err == nil {
		t.Error("expected error for non-PDF content")
	}

	if _, err := ExtractBytes(nil); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestExtractText_NotAPDF(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "fake.pdf")
	if err := os.WriteFile(tmp, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if _, err := ExtractText(tmp); err == nil {
		t.Error("expected error for non-PDF content")
	}
}
