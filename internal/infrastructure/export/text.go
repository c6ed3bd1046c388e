package export

import (
	"bytes"
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/leadbill/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var _ billingapp.ReportRenderer = (*TextRenderer)(nil)

// TextRenderer renders a plain-text billing statement
type TextRenderer struct {
	printer *message.Printer
}

// NewTextRenderer creates a renderer that formats numbers for tag
func NewTextRenderer(tag language.Tag) *TextRenderer {
	return &TextRenderer{printer: message.NewPrinter(tag)}
}

// Format implements ReportRenderer
func (r *TextRenderer) Format() string { return "txt" }

// ContentType implements ReportRenderer
func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render implements ReportRenderer
func (r *TextRenderer) Render(ctx context.Context, doc *billingapp.ReportDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Report == nil {
		return nil, fmt.Errorf("render txt: report is required")
	}
	rep := doc.Report
	amount := func(d decimal.Decimal) string { return formatAmount(r.printer, d) }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Billing report %s\n", rep.ID)
	fmt.Fprintf(&buf, "Customer:     %s\n", customerLabel(doc))
	fmt.Fprintf(&buf, "Billing date: %s\n", rep.BillingDate.UTC().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Period:       %s\n", periodLabel(rep))
	buf.WriteString("\n")

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Product\tSubtotal")
	for _, id := range productOrder(doc) {
		fmt.Fprintf(tw, "%s\t%s\n", doc.ProductName(id), amount(rep.Subtotal(id)))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("render txt: %w", err)
	}
	buf.WriteString("\n")

	tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Uncapped total:\t%s\n", amount(rep.UncappedTotal))
	fmt.Fprintf(tw, "Billing cap:\t%s\n", amount(rep.BillingCap))
	fmt.Fprintf(tw, "Total billed:\t%s\n", amount(rep.TotalBilledAmount))
	fmt.Fprintf(tw, "Total savings:\t%s\n", amount(rep.TotalSavingsAmount))
	fmt.Fprintf(tw, "  duplicates:\t%s\n", amount(rep.DuplicateSavings))
	fmt.Fprintf(tw, "  cap:\t%s\n", amount(rep.CapSavings))
	fmt.Fprintf(tw, "Billed actions:\t%s\n", r.printer.Sprintf("%d", rep.BilledActions))
	fmt.Fprintf(tw, "Duplicate actions:\t%s\n", r.printer.Sprintf("%d", rep.DuplicateActions))
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("render txt: %w", err)
	}
	if rep.CapReached {
		buf.WriteString("\nBilling cap reached: product subtotals are shown before the cap.\n")
	}

	if len(rep.Actions) > 0 {
		buf.WriteString("\nActions\n")
		tw = tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Timestamp\tProduct\tLead type\tAction\tEngagement\tValue\tStatus")
		for _, a := range rep.Actions {
			value := "-"
			if v, ok := a.PricedValue(); ok {
				value = amount(v)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				a.Timestamp.UTC().Format(time.RFC3339),
				doc.ProductName(a.ProductID),
				a.LeadType, a.ActionType, a.EngagementLevel,
				value, statusLabel(a.BillingStatus()),
			)
		}
		if err := tw.Flush(); err != nil {
			return nil, fmt.Errorf("render txt: %w", err)
		}
	}

	return buf.Bytes(), nil
}

func customerLabel(doc *billingapp.ReportDocument) string {
	if doc.CustomerName == "" {
		return doc.Report.CustomerID.String()
	}
	return fmt.Sprintf("%s (%s)", doc.CustomerName, doc.Report.CustomerID)
}

func periodLabel(rep *billing.BillingReport) string {
	switch {
	case rep.PeriodStart == nil && rep.PeriodEnd == nil:
		return "all recorded actions"
	case rep.PeriodStart == nil:
		return "up to " + rep.PeriodEnd.UTC().Format(time.RFC3339)
	case rep.PeriodEnd == nil:
		return "from " + rep.PeriodStart.UTC().Format(time.RFC3339)
	default:
		return rep.PeriodStart.UTC().Format(time.RFC3339) + " to " + rep.PeriodEnd.UTC().Format(time.RFC3339)
	}
}

func statusLabel(s billing.BillingStatus) string {
	if s == "" {
		return "Pending"
	}
	return s.String()
}
