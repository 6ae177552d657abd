package format

import (
	"testing"
	"time"

	"checkpoint/internal/models"

	"github.com/goodsign/monday"
)

func at(s string) models.Timestamp {
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestTimestamp_TwelveHourWithWeekday(t *testing.T) {
	f := Formatter{Locale: monday.LocaleEnUS, Location: time.UTC}

	got := f.Timestamp(time.Date(2024, 1, 1, 21, 5, 0, 0, time.UTC))
	if got != "Mon, 1 Jan, 09:05 PM" {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestTimestamp_UsesLocation(t *testing.T) {
	f := Formatter{Locale: monday.LocaleEnUS, Location: time.FixedZone("UTC+3", 3*3600)}

	got := f.Timestamp(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	if got != "Mon, 1 Jan, 12:00 PM" {
		t.Errorf("expected time shifted into the viewer zone, got %q", got)
	}
}

func TestRows_PlaceholderForOpenRecord(t *testing.T) {
	f := Formatter{Locale: monday.LocaleEnUS, Location: time.UTC}
	out := at("2024-01-01T17:00:00Z")
	records := []models.AttendanceRecord{
		{ID: "1", Name: "Ana", CheckIn: at("2024-01-01T09:00:00Z")},
		{ID: "2", Name: "Omar", CheckIn: at("2024-01-01T08:00:00Z"), CheckOut: &out},
	}

	rows := Rows(records, f)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Ana" || rows[1].Name != "Omar" {
		t.Errorf("rows must keep the given order, got %+v", rows)
	}
	if rows[0].CheckOut != Placeholder {
		t.Errorf("open record should render %q, got %q", Placeholder, rows[0].CheckOut)
	}
	if rows[1].CheckOut != "Mon, 1 Jan, 05:00 PM" {
		t.Errorf("closed record should render its check-out, got %q", rows[1].CheckOut)
	}
}

func TestRows_Empty(t *testing.T) {
	if rows := Rows(nil, NewFormatter("", time.UTC)); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
