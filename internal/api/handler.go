package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pdmatos/receipt-extractor/internal/extractor"
	"github.com/pdmatos/receipt-extractor/internal/models"
	"github.com/pdmatos/receipt-extractor/internal/parser"
)

// Version is reported by the health and root endpoints.
const Version = "1.0.0"

// RegisterRoutes mounts the API endpoints on the Fiber app.
func RegisterRoutes(app *fiber.App) {
	app.Get("/", HandleRoot)
	app.Get("/health", HandleHealth)
	app.Post("/extract", HandleExtract)
	app.Post("/extract-batch", HandleExtractBatch)
}

// HandleHealth is the health probe: a constant-shape status record with no
// side effects.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"message": "Supermarket Receipt Extractor API is running",
	})
}

// HandleRoot returns service information.
func HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Supermarket Receipt Extractor API",
		"version": Version,
		"endpoints": fiber.Map{
			"GET /health":         "Health check",
			"POST /extract":       "Extract receipt data from PDF",
			"POST /extract-batch": "Extract receipt data from multiple PDFs",
		},
	})
}

// HandleExtract parses a single uploaded PDF receipt.
func HandleExtract(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"detail": fmt.Sprintf("Error processing receipt: %v", r),
			})
		}
	}()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "No file uploaded. Use form field 'file'.",
		})
	}

	if !isPDF(fileHeader.Filename) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Only PDF files are supported",
		})
	}

	text, err := extractUpload(fileHeader)
	if err != nil || text == "" {
		return c.JSON(models.ParseResult{
			Success: false,
			Error:   "Could not extract text from PDF",
		})
	}

	return c.JSON(parser.Parse(text))
}

// HandleExtractBatch parses an ordered list of uploaded PDFs. Each file is
// processed independently: one document's failure never aborts its siblings,
// and the response is always 200 with per-file detail.
func HandleExtractBatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "No files uploaded. Use form field 'files'.",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "No files uploaded. Use form field 'files'.",
		})
	}

	batch := models.BatchResult{
		TotalFiles: len(files),
		Results:    make([]models.FileResult, 0, len(files)),
	}

	for _, fileHeader := range files {
		result := processUpload(fileHeader)
		if result.Success {
			batch.SuccessfulExtractions++
		} else {
			batch.FailedExtractions++
		}
		batch.Results = append(batch.Results, result)
	}

	return c.JSON(batch)
}

// processUpload handles one file of a batch. Panics are converted into a
// per-file failure so a malformed document cannot raise past its own
// boundary.
func processUpload(fileHeader *multipart.FileHeader) (result models.FileResult) {
	filename := fileHeader.Filename

	defer func() {
		if r := recover(); r != nil {
			result = models.FileResult{
				Filename: filename,
				Success:  false,
				Error:    fmt.Sprintf("%s: Error processing: %v", filename, r),
			}
		}
	}()

	if !isPDF(filename) {
		return models.FileResult{
			Filename: filename,
			Success:  false,
			Error:    filename + ": Only PDF files supported",
		}
	}

	text, err := extractUpload(fileHeader)
	if err != nil || text == "" {
		return models.FileResult{
			Filename: filename,
			Success:  false,
			Error:    filename + ": Could not extract text",
		}
	}

	parsed := parser.Parse(text)
	return models.FileResult{
		Filename: filename,
		Success:  parsed.Success,
		Receipt:  parsed.Receipt,
		Error:    parsed.Error,
	}
}

func isPDF(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// extractUpload reads the upload into memory and hands it to the extractor.
func extractUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	return extractor.ExtractBytes(data)
}
