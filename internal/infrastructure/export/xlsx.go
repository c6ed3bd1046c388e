package export

import (
	"bytes"
	"context"
	"fmt"

	billingapp "github.com/leadbill/backend/internal/application/billing"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v2"
)

var _ billingapp.ReportRenderer = (*XLSXRenderer)(nil)

// Sheet names of the rendered workbook
const (
	SheetSummary   = "Summary"
	SheetSubtotals = "Subtotals"
	SheetActions   = "Actions"
)

const amountFormat = "#,##0.00"

// XLSXRenderer renders a billing report as an Excel workbook
type XLSXRenderer struct{}

// NewXLSXRenderer creates an XLSXRenderer
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

// Format implements ReportRenderer
func (r *XLSXRenderer) Format() string { return "xlsx" }

// ContentType implements ReportRenderer
func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render implements ReportRenderer
func (r *XLSXRenderer) Render(ctx context.Context, doc *billingapp.ReportDocument) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Report == nil {
		return nil, fmt.Errorf("render xlsx: report is required")
	}

	f := xlsx.NewFile()
	if err := writeSummary(f, doc); err != nil {
		return nil, err
	}
	if err := writeSubtotals(f, doc); err != nil {
		return nil, err
	}
	if err := writeActions(ctx, f, doc); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *xlsx.File, doc *billingapp.ReportDocument) error {
	sheet, err := f.AddSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("render xlsx: add sheet %s: %w", SheetSummary, err)
	}
	rep := doc.Report

	addTextRow(sheet, "Report ID", rep.ID.String())
	addTextRow(sheet, "Customer", customerLabel(doc))
	addTextRow(sheet, "Billing date", rep.BillingDate.UTC().Format("2006-01-02 15:04:05"))
	addTextRow(sheet, "Period", periodLabel(rep))
	addAmountRow(sheet, "Uncapped total", rep.UncappedTotal)
	addAmountRow(sheet, "Billing cap", rep.BillingCap)
	addAmountRow(sheet, "Total billed", rep.TotalBilledAmount)
	addAmountRow(sheet, "Total savings", rep.TotalSavingsAmount)
	addAmountRow(sheet, "Duplicate savings", rep.DuplicateSavings)
	addAmountRow(sheet, "Cap savings", rep.CapSavings)

	row := sheet.AddRow()
	headerCell(row, "Cap reached")
	row.AddCell().SetBool(rep.CapReached)

	row = sheet.AddRow()
	headerCell(row, "Billed actions")
	row.AddCell().SetInt(rep.BilledActions)

	row = sheet.AddRow()
	headerCell(row, "Duplicate actions")
	row.AddCell().SetInt(rep.DuplicateActions)
	return nil
}

func writeSubtotals(f *xlsx.File, doc *billingapp.ReportDocument) error {
	sheet, err := f.AddSheet(SheetSubtotals)
	if err != nil {
		return fmt.Errorf("render xlsx: add sheet %s: %w", SheetSubtotals, err)
	}
	addHeader(sheet, "Product ID", "Product", "Subtotal")
	for _, id := range productOrder(doc) {
		row := sheet.AddRow()
		row.AddCell().SetString(id.String())
		row.AddCell().SetString(doc.ProductName(id))
		setAmount(row.AddCell(), doc.Report.Subtotal(id))
	}
	return nil
}

func writeActions(ctx context.Context, f *xlsx.File, doc *billingapp.ReportDocument) error {
	sheet, err := f.AddSheet(SheetActions)
	if err != nil {
		return fmt.Errorf("render xlsx: add sheet %s: %w", SheetActions, err)
	}
	addHeader(sheet, "Action ID", "Timestamp", "Product", "Lead type", "Action type", "Engagement", "Priced value", "Status")
	for _, a := range doc.Report.Actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := sheet.AddRow()
		row.AddCell().SetString(a.ID.String())
		row.AddCell().SetDateTime(a.Timestamp.UTC())
		row.AddCell().SetString(doc.ProductName(a.ProductID))
		row.AddCell().SetString(a.LeadType.String())
		row.AddCell().SetString(a.ActionType.String())
		row.AddCell().SetString(a.EngagementLevel.String())
		if v, ok := a.PricedValue(); ok {
			setAmount(row.AddCell(), v)
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(statusLabel(a.BillingStatus()))
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, t := range titles {
		headerCell(row, t)
	}
}

func headerCell(row *xlsx.Row, title string) {
	style := xlsx.NewStyle()
	style.Font.Bold = true
	style.ApplyFont = true

	cell := row.AddCell()
	cell.SetString(title)
	cell.SetStyle(style)
}

func addTextRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	headerCell(row, label)
	row.AddCell().SetString(value)
}

func addAmountRow(sheet *xlsx.Sheet, label string, value decimal.Decimal) {
	row := sheet.AddRow()
	headerCell(row, label)
	setAmount(row.AddCell(), value)
}

func setAmount(cell *xlsx.Cell, value decimal.Decimal) {
	cell.SetFloatWithFormat(value.Round(2).InexactFloat64(), amountFormat)
}
