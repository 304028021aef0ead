package parser

import (
	"regexp"
	"strings"

	"github.com/pdmatos/receipt-extractor/internal/models"
)

// ContinenteGrammar handles Continente supermarket receipts.
//
// The layout uses colon-terminated section headers and prefixes every product
// with a parenthesized tax code. A product's price may sit on the same line
// or on a continuation line of its own:
//
//	IVA DESCRICAO VALOR
//	Soft Drinks:
//	(B) AGUA S/GAS LUSO 50CL
//	3 X 0,50 1,50
//	Higiene:
//	(A) RESGUARDO CONT BEBE 15UN 5,99
//	TOTAL A PAGAR 61,20
//
// Item scanning is armed by the "IVA DESCRICAO VALOR" column title and stops
// at the payment block.
type ContinenteGrammar struct{}

func (g *ContinenteGrammar) MarketName() string {
	return "Continente"
}

var (
	ctInvoicePattern = regexp.MustCompile(`Nro:\s*FS\s+(\S+)`)
	ctDatePattern    = regexp.MustCompile(`Nro:\s*FS\s+\S+\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)

	ctSubtotalPattern = regexp.MustCompile(`SUBTOTAL\s+([\d,]+)`)
	ctPaidPattern     = regexp.MustCompile(`TOTAL A PAGAR\s+([\d,]+)`)
	ctSavingsPattern  = regexp.MustCompile(`Total de descontos e poupancas\s+([\d,]+)`)

	// "(B) AGUA S/GAS LUSO 50CL" — tax code prefix, then description
	ctProductPattern = regexp.MustCompile(`^\(([A-Z])\)\s+(.+)$`)
	// trailing inline price; requires a comma so unit markers ("50CL") and
	// pack counts don't pass as amounts
	ctInlinePricePattern = regexp.MustCompile(`^(.+?)\s+(\d+,\d+)$`)
	// continuation line "3 X 0,50 1,50" — quantity, unit price, line total
	ctQuantityPattern = regexp.MustCompile(`^(\d+(?:,\d+)?)\s+X\s+([\d,]+)\s+([\d,]+)$`)
	// continuation line carrying only the price
	ctBarePricePattern = regexp.MustCompile(`^(\d+,\d+)$`)
)

// ctItemsHeader is the column-title line that precedes the product list.
const ctItemsHeader = "IVA DESCRICAO VALOR"

// ctTerminators end the product list: the payment total, card payment lines
// and the VAT breakdown table.
var ctTerminators = []string{"TOTAL A PAGAR", "Cartao", "%IVA"}

// Branch is the first non-blank line of the document, unconditionally.
func (g *ContinenteGrammar) ExtractBranch(text string) string {
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			return line
		}
	}
	return ""
}

func (g *ContinenteGrammar) ExtractInvoice(text string) string {
	if m := ctInvoicePattern.FindStringSubmatch(text); m != nil {
		return "FS " + m[1]
	}
	return ""
}

// ExtractDate returns the date token that follows the invoice number on the
// Nro line, with dashes normalized to slashes.
func (g *ContinenteGrammar) ExtractDate(text string) string {
	if m := ctDatePattern.FindStringSubmatch(text); m != nil {
		return normalizeDate(m[1])
	}
	return ""
}

// ExtractTotals reconciles the summary block. With a SUBTOTAL line the
// discount is derived as SUBTOTAL - TOTAL A PAGAR; without one the aggregate
// savings line supplies the discount and the total is derived as
// paid + discount. Totals read from single tokens are used as printed.
func (g *ContinenteGrammar) ExtractTotals(text string) models.Totals {
	var totals models.Totals

	subtotal := findAmount(ctSubtotalPattern, text)
	paid := findAmount(ctPaidPattern, text)

	if subtotal != nil {
		totals.Total = subtotal
		if paid != nil {
			totals.TotalPaid = paid
			totals.TotalDiscount = num(round2(*subtotal - *paid))
		}
		return totals
	}

	totals.TotalPaid = paid
	totals.TotalDiscount = findAmount(ctSavingsPattern, text)
	if paid != nil && totals.TotalDiscount != nil {
		totals.Total = num(round2(*paid + *totals.TotalDiscount))
	}
	return totals
}

func findAmount(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := parseDecimal(m[1])
	if err != nil {
		return nil
	}
	return num(v)
}

func (g *ContinenteGrammar) ExtractItems(text, branch string) []models.LineItem {
	var items []models.LineItem
	// pending holds a product whose price is expected on a following line.
	var pending *models.LineItem
	armed := false
	section := ""

	flush := func() {
		if pending != nil {
			// A pending item without a continuation line keeps whatever
			// price it already had, possibly zero.
			items = append(items, *pending)
			pending = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !armed {
			if strings.Contains(line, ctItemsHeader) {
				armed = true
			}
			continue
		}

		if isContinenteTerminator(line) {
			break
		}

		if isContinenteSectionHeader(line) {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		if m := ctProductPattern.FindStringSubmatch(line); m != nil {
			flush()
			item := models.LineItem{Category: section, Quantity: 1.0}
			rest := m[2]
			if pm := ctInlinePricePattern.FindStringSubmatch(rest); pm != nil {
				if price, err := parseDecimal(pm[2]); err == nil {
					item.Description = strings.TrimSpace(pm[1])
					item.UnitPrice = price
					items = append(items, item)
					continue
				}
			}
			item.Description = strings.TrimSpace(rest)
			pending = &item
			continue
		}

		if pending != nil {
			if m := ctQuantityPattern.FindStringSubmatch(line); m != nil {
				quantity, qErr := parseDecimal(m[1])
				// unit price, never the line total
				price, pErr := parseDecimal(m[2])
				if qErr == nil && pErr == nil {
					pending.Quantity = quantity
					pending.UnitPrice = price
					flush()
				}
				continue
			}
			if m := ctBarePricePattern.FindStringSubmatch(line); m != nil {
				if price, err := parseDecimal(m[1]); err == nil {
					pending.UnitPrice = price
					flush()
				}
				continue
			}
		}
	}

	flush()
	return items
}

// isContinenteSectionHeader reports whether a line is a section header such
// as "Laticinios/Beb. Veg.:" — colon-terminated, digit-free, and without a
// parenthesis (which would mark a product or VAT line instead).
func isContinenteSectionHeader(line string) bool {
	return strings.HasSuffix(line, ":") &&
		!containsDigit(line) &&
		!strings.Contains(line, "(")
}

func isContinenteTerminator(line string) bool {
	for _, marker := range ctTerminators {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
