package parser

import (
	"regexp"
	"strings"

	"github.com/pdmatos/receipt-extractor/internal/models"
)

// PingoDoceGrammar handles Pingo Doce supermarket receipts.
//
// The layout is a single column of sections and products:
//
//	PEIXARIA
//	C TRANCHE SALMÃO UN150 2,000 X 3,69 7,38
//	Poupança Imediata (3,40)
//	PADARIA/PASTELARIA
//	E PÃO DE LEITE 1,99
//
// Section headers are all-uppercase lines; each product line starts with a
// single-letter type indicator; "Poupança Imediata" lines are immediate
// rebates on the product directly above. The "Resumo" block ends the item
// list.
type PingoDoceGrammar struct{}

func (g *PingoDoceGrammar) MarketName() string {
	return "Pingo Doce"
}

var (
	// Newer receipts clip the branch header to "go Doce <location>"; older
	// ones print "PD <location>".
	pdBranchPattern       = regexp.MustCompile(`(?m)^(go Doce\s+\S[^\n]*)`)
	pdBranchLegacyPattern = regexp.MustCompile(`PD\s+([^\n]+)`)

	pdInvoicePattern  = regexp.MustCompile(`Fatura Simplificada\s+FS\s+(\S+)`)
	pdTotalPattern    = regexp.MustCompile(`COMPRA\s+([\d,]+)€`)
	pdDatePattern     = regexp.MustCompile(`Data de emissão:\s*(\S+)`)
	pdDiscountPattern = regexp.MustCompile(`Poupança Imediata\s*\(([\d,]+)\)`)

	pdSingleCapPrefix = regexp.MustCompile(`^[A-Z]\s`)
)

// productShape pairs a line pattern with the constructor that turns its
// capture groups into a LineItem. Shapes are tried in order; the first whose
// pattern matches and whose numeric tokens parse wins.
type productShape struct {
	pattern *regexp.Regexp
	build   func(groups []string) (models.LineItem, bool)
}

// The four Pingo Doce product line shapes, strictest first. The decimal and
// integer quantity shapes overlap, but both run before the flat-price shape:
// its lazy description would otherwise swallow the quantity tokens of a
// weight-sale line.
var pdProductShapes = []productShape{
	{
		// "C TRANCHE SALMÃO UN150 2,000 X 3,69 7,38" — weight sale
		pattern: regexp.MustCompile(`^([A-Z])\s+(.+?)\s+(\d+,\d+)\s+X\s+([\d,]+)\s+([\d,]+)$`),
		build:   buildQuantityItem,
	},
	{
		// "C BROCOLOS PD 400G 2 X 0,89 1,78" — unit-count sale
		pattern: regexp.MustCompile(`^([A-Z])\s+(.+?)\s+(\d+)\s+X\s+([\d,]+)\s+([\d,]+)$`),
		build:   buildQuantityItem,
	},
	{
		// "E PÃO DE LEITE 1,99" — flat price, quantity 1
		pattern: regexp.MustCompile(`^([A-Z])\s+(.+?)\s+([\d,]+)$`),
		build: func(groups []string) (models.LineItem, bool) {
			price, err := parseDecimal(groups[3])
			if err != nil {
				return models.LineItem{}, false
			}
			return models.LineItem{
				Description: strings.TrimSpace(groups[2]),
				UnitPrice:   price,
				Quantity:    1.0,
			}, true
		},
	},
	{
		// "E C COLA ZERO 2X1,75L 3,69" — dual type indicator, quantity is
		// the first integer inside the quantity token
		pattern: regexp.MustCompile(`^([A-Z])\s+([A-Z])\s+(.+?)\s+(.+?)\s+([\d,]+)$`),
		build: func(groups []string) (models.LineItem, bool) {
			price, err := parseDecimal(groups[5])
			if err != nil {
				return models.LineItem{}, false
			}
			quantity := 1.0
			if m := firstIntPattern.FindString(groups[4]); m != "" {
				if q, err := parseDecimal(m); err == nil {
					quantity = q
				}
			}
			return models.LineItem{
				Description: groups[2] + " " + strings.TrimSpace(groups[3]),
				UnitPrice:   price,
				Quantity:    quantity,
			}, true
		},
	},
}

var firstIntPattern = regexp.MustCompile(`\d+`)

// buildQuantityItem handles the QTY X UNITPRICE LINETOTAL shapes. The line
// total is ignored: UnitPrice always carries the per-unit price.
func buildQuantityItem(groups []string) (models.LineItem, bool) {
	quantity, err := parseDecimal(groups[3])
	if err != nil {
		return models.LineItem{}, false
	}
	price, err := parseDecimal(groups[4])
	if err != nil {
		return models.LineItem{}, false
	}
	return models.LineItem{
		Description: strings.TrimSpace(groups[2]),
		UnitPrice:   price,
		Quantity:    quantity,
	}, true
}

func (g *PingoDoceGrammar) ExtractBranch(text string) string {
	if m := pdBranchPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := pdBranchLegacyPattern.FindStringSubmatch(text); m != nil {
		return "PD " + strings.TrimSpace(m[1])
	}
	return ""
}

func (g *PingoDoceGrammar) ExtractInvoice(text string) string {
	if m := pdInvoicePattern.FindStringSubmatch(text); m != nil {
		return "FS " + m[1]
	}
	return ""
}

func (g *PingoDoceGrammar) ExtractTotals(text string) models.Totals {
	var totals models.Totals
	if m := pdTotalPattern.FindStringSubmatch(text); m != nil {
		if v, err := parseDecimal(m[1]); err == nil {
			totals.Total = num(v)
		}
	}
	return totals
}

func (g *PingoDoceGrammar) ExtractDate(text string) string {
	if m := pdDatePattern.FindStringSubmatch(text); m != nil {
		return normalizeDate(m[1])
	}
	return ""
}

func (g *PingoDoceGrammar) ExtractItems(text, branch string) []models.LineItem {
	var items []models.LineItem
	var last *models.LineItem
	section := ""

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		// The Resumo block ends the item list; anything after it is
		// summary and VAT breakdown.
		if strings.HasPrefix(line, "Resumo") {
			break
		}

		if isPingoDoceSectionHeader(line) {
			section = line
			continue
		}

		if d, ok := parseImmediateDiscount(line); ok {
			// Attach to the product directly above: first rebate fills
			// Discount, any further one fills Discount2. A rebate with no
			// preceding product is dropped.
			if last != nil {
				if last.Discount == nil {
					last.Discount = num(d)
				} else {
					last.Discount2 = num(d)
				}
			}
			continue
		}

		// Products only count once a section header has been seen.
		if section == "" {
			continue
		}

		if item, ok := parsePingoDoceProduct(line); ok {
			item.Category = section
			items = append(items, item)
			last = &items[len(items)-1]
		}
	}

	return items
}

// isPingoDoceSectionHeader reports whether a line is a section header such as
// "PEIXARIA" or "MERCEARIA + PET FOOD": entirely uppercase, no digits, and
// not shaped like a product line (single capital + space). An all-caps
// section name starting with a one-letter word would be misclassified; no
// such section exists on real receipts.
func isPingoDoceSectionHeader(line string) bool {
	return isAllUpper(line) && !containsDigit(line) && !pdSingleCapPrefix.MatchString(line)
}

// parseImmediateDiscount extracts the amount from a "Poupança Imediata (1,23)"
// rebate line.
func parseImmediateDiscount(line string) (float64, bool) {
	m := pdDiscountPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := parseDecimal(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// parsePingoDoceProduct tries the four product shapes in priority order.
// Rebate lines are never products, whatever shape they happen to match.
func parsePingoDoceProduct(line string) (models.LineItem, bool) {
	if strings.Contains(line, "Poupança Imediata") {
		return models.LineItem{}, false
	}
	for _, shape := range pdProductShapes {
		m := shape.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if item, ok := shape.build(m); ok {
			return item, true
		}
	}
	return models.LineItem{}, false
}
