// Package storage keeps the desk's local activity journal: one JSON line per
// action, one file per day.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"checkpoint/internal/models"
)

const dayLayout = "2006-01-02"

var fileMutex sync.Mutex

func dayFile(dir string, day time.Time) string {
	return filepath.Join(dir, day.Format(dayLayout)+".jsonl")
}

// AppendEntry adds e to the file for the day it happened.
func AppendEntry(dir string, e models.JournalEntry) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	fileMutex.Lock()
	defer fileMutex.Unlock()

	f, err := os.OpenFile(dayFile(dir, e.At), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}
	return nil
}

// LoadEntries returns the entries recorded on day, oldest first. Lines that
// do not parse are skipped.
func LoadEntries(dir string, day time.Time) ([]models.JournalEntry, error) {
	data, err := os.ReadFile(dayFile(dir, day))
	if os.IsNotExist(err) {
		return []models.JournalEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []models.JournalEntry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var e models.JournalEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// ListDays returns the days that have a journal file, oldest first.
func ListDays(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	var days []string
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || filepath.Ext(name) != ".jsonl" {
			continue
		}
		day := strings.TrimSuffix(name, ".jsonl")
		if _, err := time.Parse(dayLayout, day); err == nil {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	return days, nil
}
