package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	recovermw "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/rs/zerolog"

	"github.com/pdmatos/receipt-extractor/internal/api"
	"github.com/pdmatos/receipt-extractor/internal/extractor"
	"github.com/pdmatos/receipt-extractor/internal/parser"
	"github.com/pdmatos/receipt-extractor/internal/writer"
)

func main() {
	fs := ff.NewFlagSet("receipt-extractor")
	var (
		serveFlag   = fs.BoolLong("serve", "Run the HTTP API instead of converting files")
		portFlag    = fs.IntLong("port", 8000, "HTTP server port (with --serve)")
		outputFlag  = fs.StringLong("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
		noHeader    = fs.BoolLong("no-header", "Omit receipt metadata header rows from CSV")
		versionFlag = fs.BoolLong("version", "Print version and exit")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_EXTRACTOR"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *versionFlag {
		fmt.Printf("receipt-extractor v%s\n", api.Version)
		os.Exit(0)
	}

	if *serveFlag {
		runServer(*portFlag)
		return
	}

	inputFiles := fs.GetArgs()
	if len(inputFiles) == 0 {
		fmt.Fprintf(os.Stderr, `Supermarket Receipt Extractor

Extracts structured purchase data (branch, invoice, date, totals, line
items) from Pingo Doce and Continente PDF receipts.

Usage:
  receipt-extractor [flags] <receipt.pdf> [receipt2.pdf ...]
  receipt-extractor --serve [--port=8000]

%s
`, ffhelp.Flags(fs))
		os.Exit(0)
	}

	for _, inputPath := range inputFiles {
		if err := processFile(inputPath, *outputFlag, !*noHeader); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(inputPath, outputPath string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	if ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	text, err := extractor.ExtractText(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	result := parser.Parse(text)
	if !result.Success {
		return fmt.Errorf("parsing failed: %s", result.Error)
	}

	receipt := result.Receipt
	fmt.Printf("  Market: %s\n", receipt.Market)
	fmt.Printf("  Branch: %s\n", receipt.Branch)
	if receipt.Invoice != "" {
		fmt.Printf("  Invoice: %s\n", receipt.Invoice)
	}
	if receipt.Date != "" {
		fmt.Printf("  Date: %s\n", receipt.Date)
	}
	if receipt.Total != nil {
		fmt.Printf("  Total: %.2f\n", *receipt.Total)
	}
	fmt.Printf("  Found %d product(s)\n", len(receipt.Items))

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, receipt); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}

func runServer(port int) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	app := fiber.New(fiber.Config{
		AppName:   "receipt-extractor",
		BodyLimit: 32 << 20,
	})
	app.Use(recovermw.New())
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		logger.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Msg("request")
		return err
	})

	api.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Str("version", api.Version).Msg("starting receipt extractor API")
	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
