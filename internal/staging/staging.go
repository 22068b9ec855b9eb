// Package staging keeps the flat-file JSON copy of every daily entry
// submission. A snapshot is written before any relational insert and can be
// read back on its own, so a failed database commit never loses a submission.
package staging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

const (
	keyPrefix = "daily-"
	keySuffix = ".json"
	dateFmt   = "2006-01-02"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a date.
var ErrSnapshotNotFound = errors.New("staged snapshot not found")

// Activity is one activity line of a daily form submission.
type Activity struct {
	Name      string `json:"name"`
	Duration  *int   `json:"duration,omitempty"`
	Intensity *int   `json:"intensity,omitempty"`
	Category  string `json:"category,omitempty"`
}

// Metric is a user defined numeric measurement.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Snapshot is the staged copy of a daily form submission.
type Snapshot struct {
	Date          string     `json:"date"`
	MoodScore     int        `json:"moodScore"`
	Activities    []Activity `json:"activities"`
	CustomMetrics []Metric   `json:"customMetrics,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Timestamp     string     `json:"timestamp"`
	SubmissionID  string     `json:"submissionId"`
}

// Store persists snapshots as daily-<date>.json files in a flat directory.
type Store struct {
	d       *diskv.Diskv
	baseDir string
}

// Open prepares the staging directory.
func Open(baseDir string) (*Store, error) {
	dir := strings.TrimSpace(baseDir)
	if dir == "" {
		return nil, errors.New("staging directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 512 * 1024,
			FilePerm:     0o644,
			PathPerm:     0o755,
		}),
		baseDir: dir,
	}, nil
}

// Key returns the file name used for a date.
func Key(date string) string {
	return keyPrefix + date + keySuffix
}

// Path returns the on-disk location of a date's snapshot.
func (s *Store) Path(date string) string {
	return filepath.Join(s.baseDir, Key(date))
}

// Write stores the snapshot, replacing any earlier one for the same date.
func (s *Store) Write(snapshot Snapshot) (string, error) {
	if _, err := time.Parse(dateFmt, snapshot.Date); err != nil {
		return "", fmt.Errorf("invalid snapshot date %q: %w", snapshot.Date, err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.d.Write(Key(snapshot.Date), data); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return s.Path(snapshot.Date), nil
}

// Read loads the snapshot of a date.
func (s *Store) Read(date string) (*Snapshot, error) {
	key := Key(date)
	if !s.d.Has(key) {
		return nil, ErrSnapshotNotFound
	}

	data, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return &snapshot, nil
}

// Dates lists the staged dates, newest first.
func (s *Store) Dates() []string {
	cancel := make(chan struct{})
	defer close(cancel)

	dates := make([]string, 0)
	for key := range s.d.Keys(cancel) {
		if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, keySuffix) {
			continue
		}
		date := strings.TrimSuffix(strings.TrimPrefix(key, keyPrefix), keySuffix)
		if _, err := time.Parse(dateFmt, date); err != nil {
			continue
		}
		dates = append(dates, date)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
