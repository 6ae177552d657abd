// Package report renders the attendance table to a PDF file.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"checkpoint/internal/format"
	"checkpoint/internal/models"

	"github.com/go-pdf/fpdf"
)

const (
	Title    = "Attendance Report"
	FileName = "attendance-report.pdf"

	marginLeft = 14.0
	titleY     = 16.0
	tableY     = 24.0
	rowHeight  = 8.0
)

var (
	header       = []string{"Name", "Check In", "Check Out"}
	columnWidths = []float64{62, 60, 60}
)

type Report struct {
	Title  string
	Header []string
	Rows   [][]string

	// Compress is off only in tests, where the text stream is inspected.
	Compress bool
}

// Build takes the attendance already on screen; no network call is made.
func Build(records []models.AttendanceRecord, f format.Formatter) Report {
	rows := format.Rows(records, f)
	r := Report{
		Title:    Title,
		Header:   append([]string(nil), header...),
		Rows:     make([][]string, 0, len(rows)),
		Compress: true,
	}
	for _, row := range rows {
		r.Rows = append(r.Rows, row.Cells())
	}
	return r
}

func (r Report) WritePDF(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetTitle(r.Title, true)
	pdf.SetLeftMargin(marginLeft)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps UTF-8 text such as the placeholder dash.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 16)
	pdf.Text(marginLeft, titleY, tr(r.Title))

	pdf.SetXY(marginLeft, tableY)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(220, 220, 220)
	for i, h := range r.Header {
		pdf.CellFormat(columnWidths[i], rowHeight, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(40, 40, 40)
	for n, row := range r.Rows {
		if n%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for i, cell := range row {
			pdf.CellFormat(columnWidths[i], rowHeight, tr(cell), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// Save writes the report to dir/attendance-report.pdf and returns the path.
func (r Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report folder: %w", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	if err := r.WritePDF(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
