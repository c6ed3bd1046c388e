package export

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// formatAmount rounds to cents and applies the printer's digit grouping and
// decimal point. The digits come from the decimal itself, never from a float.
func formatAmount(p *message.Printer, d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, cents, _ := strings.Cut(fixed, ".")
	group, point := separators(p)
	return sign + groupDigits(whole, group) + point + cents
}

// separators reads the grouping and decimal symbols the printer uses for its locale
func separators(p *message.Printer) (group, point string) {
	group = strings.Trim(p.Sprintf("%d", 1000), "0123456789")
	point = strings.Trim(p.Sprintf("%.1f", 0.5), "0123456789")
	if point == "" {
		point = "."
	}
	return group, point
}

func groupDigits(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// productOrder lists the report's products in first-billed order. Reports
// loaded without their actions fall back to ordering by display name.
func productOrder(doc *billingapp.ReportDocument) []uuid.UUID {
	rep := doc.Report
	if ids := rep.ProductIDs(); len(ids) == len(rep.ProductSubtotals) {
		return ids
	}
	ids := make([]uuid.UUID, 0, len(rep.ProductSubtotals))
	for id := range rep.ProductSubtotals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, nj := doc.ProductName(ids[i]), doc.ProductName(ids[j])
		if ni != nj {
			return ni < nj
		}
		return ids[i].String() < ids[j].String()
	})
	return ids
}
