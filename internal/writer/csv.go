package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdmatos/receipt-extractor/internal/models"
)

// CSVWriter writes receipt line items to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the receipt to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, receipt *models.Receipt) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, receipt)
}

// Write writes the receipt in CSV format to the given writer: optional
// metadata rows, then one row per line item.
func (w *CSVWriter) Write(out io.Writer, receipt *models.Receipt) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		writer.Write([]string{"# Market", string(receipt.Market)})
		writer.Write([]string{"# Branch", receipt.Branch})
		if receipt.Invoice != "" {
			writer.Write([]string{"# Invoice", receipt.Invoice})
		}
		if receipt.Date != "" {
			writer.Write([]string{"# Date", receipt.Date})
		}
		if receipt.Total != nil {
			writer.Write([]string{"# Total", formatAmount(*receipt.Total)})
		}
		if receipt.TotalPaid != nil {
			writer.Write([]string{"# Total Paid", formatAmount(*receipt.TotalPaid)})
		}
		if receipt.TotalDiscount != nil {
			writer.Write([]string{"# Total Discount", formatAmount(*receipt.TotalDiscount)})
		}
	}

	header := []string{"Category", "Description", "UnitPrice", "Quantity", "Discount", "Discount2"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range receipt.Items {
		row := []string{
			item.Category,
			item.Description,
			formatAmount(item.UnitPrice),
			formatQuantity(item.Quantity),
			formatOptional(item.Discount),
			formatOptional(item.Discount2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}
