package parser

import (
	"fmt"
	"strings"

	"github.com/pdmatos/receipt-extractor/internal/models"
)

// Grammar defines the layout-specific extraction rules for one supermarket
// chain. Implementations are stateless values and safe for concurrent use.
type Grammar interface {
	// MarketName returns the human-readable chain name.
	MarketName() string
	// ExtractBranch returns the store location label, or "" if not found.
	ExtractBranch(text string) string
	// ExtractInvoice returns the transaction identifier, or "" if not found.
	ExtractInvoice(text string) string
	// ExtractTotals returns whichever summary amounts the layout prints,
	// reconciled so that total ≈ paid + discount when derivable.
	ExtractTotals(text string) models.Totals
	// ExtractDate returns the issue date normalized to DD/MM/YYYY, or "".
	ExtractDate(text string) string
	// ExtractItems returns the purchased products in document order.
	ExtractItems(text, branch string) []models.LineItem
}

// New returns the grammar for the given market.
func New(market models.Market) (Grammar, error) {
	switch market {
	case models.MarketPingoDoce:
		return &PingoDoceGrammar{}, nil
	case models.MarketContinente:
		return &ContinenteGrammar{}, nil
	default:
		return nil, fmt.Errorf("unsupported market: %q", market)
	}
}

// DetectMarket identifies the supermarket chain from the receipt text.
//
// Continente is only checked in the first two lines: its brand name shows up
// in footer boilerplate of other documents, so a whole-text scan would give
// false positives. The Pingo Doce token only ever appears in the header in
// practice, so its scan is unscoped.
func DetectMarket(text string) (models.Market, error) {
	lines := strings.SplitN(text, "\n", 3)
	header := lines[0]
	if len(lines) > 1 {
		header += "\n" + lines[1]
	}
	if containsIgnoreCase(header, "continente") {
		return models.MarketContinente, nil
	}
	if containsIgnoreCase(text, "pingo doce") {
		return models.MarketPingoDoce, nil
	}
	return "", fmt.Errorf("could not detect market from receipt text")
}

// Parse runs the full pipeline on one document's extracted text: market
// detection, grammar dispatch, field and item extraction. The detected market
// lives only in this call frame, so concurrent invocations never share state.
//
// A receipt is all-or-nothing: an undetectable market, a missing branch, or an
// empty item list each yield a failed ParseResult. Missing scalar fields do
// not — a receipt with items and a branch is a success even if invoice, date
// and totals are all absent.
func Parse(text string) models.ParseResult {
	market, err := DetectMarket(text)
	if err != nil {
		return failure("Could not detect market")
	}

	grammar, err := New(market)
	if err != nil {
		return failure(err.Error())
	}

	branch := grammar.ExtractBranch(text)
	if branch == "" {
		return failure("Could not extract branch information")
	}

	invoice := grammar.ExtractInvoice(text)
	totals := grammar.ExtractTotals(text)
	date := grammar.ExtractDate(text)

	items := grammar.ExtractItems(text, branch)
	if len(items) == 0 {
		return failure("No products found in receipt")
	}

	return models.ParseResult{
		Success: true,
		Receipt: &models.Receipt{
			Market:        market,
			Branch:        branch,
			Invoice:       invoice,
			Date:          date,
			Total:         totals.Total,
			TotalPaid:     totals.TotalPaid,
			TotalDiscount: totals.TotalDiscount,
			Items:         items,
		},
	}
}

func failure(reason string) models.ParseResult {
	return models.ParseResult{Success: false, Error: reason}
}
