// Package export renders billing reports into downloadable files.
//
// TextRenderer produces a plain-text statement with locale-aware number
// formatting. XLSXRenderer produces a workbook with Summary, Subtotals and
// Actions sheets. Both implement billing.ReportRenderer.
package export
