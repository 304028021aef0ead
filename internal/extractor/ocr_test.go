package extractor

import (
	"os/exec"
	"testing"
)

func TestIsOCRAvailable(t *testing.T) {
	// The result depends on the system's installed tools; verify it agrees
	// with direct LookPath checks.
	result := IsOCRAvailable()
	t.Logf("IsOCRAvailable() = %v", result)

	_, err1 := exec.LookPath("pdftoppm")
	_, err2 := exec.LookPath("tesseract")
	expected := err1 == nil && err2 == nil
	if result != expected {
		t.Errorf("IsOCRAvailable() = %v, but direct check says %v", result, expected)
	}
}

func TestExtractTextOCR_MissingTools(t *testing.T) {
	if IsOCRAvailable() {
		t.Skip("OCR tools are installed; cannot test missing-tool error path")
	}

	_, err := ExtractTextOCR("/nonexistent/receipt.pdf")
	if err == nil {
		t.Error("expected error when OCR tools are not installed")
	}
}

func TestExtractTextOCR_NonexistentFile(t *testing.T) {
	if !IsOCRAvailable() {
		t.Skip("OCR tools not installed; skipping")
	}

	_, err := ExtractTextOCR("/tmp/nonexistent-receipt-12345.pdf")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}
