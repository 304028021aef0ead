package models

// LineItem represents a single purchased product extracted from a receipt.
type LineItem struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	UnitPrice   float64  `json:"unit_price"`
	Quantity    float64  `json:"quantity"`
	Discount    *float64 `json:"discount,omitempty"`
	Discount2   *float64 `json:"discount2,omitempty"`
}

// Market identifies the supermarket chain a receipt layout belongs to.
type Market string

const (
	MarketPingoDoce  Market = "Pingo Doce"
	MarketContinente Market = "Continente"
)

// Totals bundles the scalar amounts printed in a receipt's summary block.
// Any of the three may be absent from the source text.
type Totals struct {
	Total         *float64
	TotalPaid     *float64
	TotalDiscount *float64
}

// Receipt is the complete parse result for one document.
// It is assembled once by the parsing engine and never mutated afterward.
type Receipt struct {
	Market        Market     `json:"market"`
	Branch        string     `json:"branch"`
	Invoice       string     `json:"invoice,omitempty"`
	Date          string     `json:"date,omitempty"` // normalized DD/MM/YYYY
	Total         *float64   `json:"total,omitempty"`
	TotalPaid     *float64   `json:"total_paid,omitempty"`
	TotalDiscount *float64   `json:"total_discount,omitempty"`
	Items         []LineItem `json:"products"`
}

// ParseResult is the outcome of parsing one document: either a Receipt
// or a human-readable failure reason. There is no partial-success state.
type ParseResult struct {
	Success bool     `json:"success"`
	Receipt *Receipt `json:"receipt,omitempty"`
	Error   string   `json:"error_message,omitempty"`
}

// FileResult is a ParseResult tagged with the originating filename,
// used by batch requests.
type FileResult struct {
	Filename string   `json:"filename"`
	Success  bool     `json:"success"`
	Receipt  *Receipt `json:"receipt,omitempty"`
	Error    string   `json:"error_message,omitempty"`
}

// BatchResult aggregates per-file outcomes for a multi-document request.
// SuccessfulExtractions + FailedExtractions == TotalFiles == len(Results).
type BatchResult struct {
	TotalFiles            int          `json:"total_files"`
	SuccessfulExtractions int          `json:"successful_extractions"`
	FailedExtractions     int          `json:"failed_extractions"`
	Results               []FileResult `json:"results"`
}
