// Package format turns attendance records into display rows.
package format

import (
	"time"

	"checkpoint/internal/models"

	"github.com/goodsign/monday"
)

// Placeholder stands in for a check-out that has not happened yet.
const Placeholder = "—"

// DefaultLayout shows weekday, day, month and 12-hour time.
const DefaultLayout = "Mon, 2 Jan, 03:04 PM"

type Formatter struct {
	Locale   monday.Locale
	Location *time.Location
	Layout   string
}

func NewFormatter(locale string, loc *time.Location) Formatter {
	if locale == "" {
		locale = string(monday.LocaleEnGB)
	}
	return Formatter{Locale: monday.Locale(locale), Location: loc, Layout: DefaultLayout}
}

func (f Formatter) Timestamp(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	return monday.Format(t.In(loc), layout, f.Locale)
}

type Row struct {
	Name     string
	CheckIn  string
	CheckOut string
}

func (r Row) Cells() []string {
	return []string{r.Name, r.CheckIn, r.CheckOut}
}

// Rows maps records one to one, in the given order.
func Rows(records []models.AttendanceRecord, f Formatter) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		out := Placeholder
		if rec.CheckedOut() {
			out = f.Timestamp(rec.CheckOut.Time)
		}
		rows = append(rows, Row{
			Name:     rec.Name,
			CheckIn:  f.Timestamp(rec.CheckIn.Time),
			CheckOut: out,
		})
	}
	return rows
}
