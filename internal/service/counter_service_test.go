package service

import (
	"errors"
	"testing"
	"time"

	"github.com/daytrack/internal/db"
)

func intPtr(v int) *int {
	return &v
}

func TestCounterServiceCreateAndUpdate(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewCounterService(gdb)

	if _, err := svc.Create(CounterInput{Emoji: "  ", Name: "coffee"}); !errors.Is(err, ErrCounterEmojiRequired) {
		t.Fatalf("expected ErrCounterEmojiRequired, got %v", err)
	}

	counter, err := svc.Create(CounterInput{Emoji: "☕", Name: "  ", Threshold: intPtr(0)})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if counter.ID == 0 {
		t.Fatal("expected counter to have ID")
	}
	if counter.Name != nil {
		t.Fatalf("expected blank name to be stored as nil, got %q", *counter.Name)
	}
	if counter.Threshold != nil {
		t.Fatalf("expected non-positive threshold to be nil, got %d", *counter.Threshold)
	}

	updated, err := svc.Update(counter.ID, CounterInput{Emoji: "☕", Name: "coffee", Threshold: intPtr(3), ExceedingIsGood: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name == nil || *updated.Name != "coffee" {
		t.Fatalf("unexpected name: %v", updated.Name)
	}
	if updated.Threshold == nil || *updated.Threshold != 3 || !updated.ExceedingIsGood {
		t.Fatalf("unexpected threshold settings: %+v", updated)
	}

	if _, err := svc.Update(999, CounterInput{Emoji: "☕"}); !errors.Is(err, ErrCounterNotFound) {
		t.Fatalf("expected ErrCounterNotFound, got %v", err)
	}

	counters, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(counters) != 1 {
		t.Fatalf("expected 1 counter, got %d", len(counters))
	}
}

func TestEvaluateThreshold(t *testing.T) {
	tests := []struct {
		name    string
		counter db.Counter
		times   int
		want    ThresholdStatus
	}{
		{name: "no threshold", counter: db.Counter{}, times: 10, want: ThresholdNone},
		{name: "below", counter: db.Counter{Threshold: intPtr(3)}, times: 2, want: ThresholdBelow},
		{name: "reached bad", counter: db.Counter{Threshold: intPtr(3)}, times: 3, want: ThresholdBad},
		{name: "exceeded bad", counter: db.Counter{Threshold: intPtr(3)}, times: 5, want: ThresholdBad},
		{name: "reached good", counter: db.Counter{Threshold: intPtr(8), ExceedingIsGood: true}, times: 8, want: ThresholdGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateThreshold(tt.counter, tt.times); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCounterTimeIncrementAndDecrement(t *testing.T) {
	gdb := setupServiceTestDB(t)
	counters := NewCounterService(gdb)
	times := NewCounterTimeService(gdb)
	day := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	counter, err := counters.Create(CounterInput{Emoji: "💧", Name: "water"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := times.Increment(999, day); !errors.Is(err, ErrCounterNotFound) {
		t.Fatalf("expected ErrCounterNotFound, got %v", err)
	}
	if _, err := times.Decrement(counter.ID, day); !errors.Is(err, ErrCounterTimeNotFound) {
		t.Fatalf("expected ErrCounterTimeNotFound, got %v", err)
	}

	for i := 1; i <= 3; i++ {
		record, err := times.Increment(counter.ID, day)
		if err != nil {
			t.Fatalf("Increment returned error: %v", err)
		}
		if record.TimesCount != i {
			t.Fatalf("expected count %d, got %d", i, record.TimesCount)
		}
		if record.Counter.ID != counter.ID {
			t.Fatalf("expected counter to be preloaded")
		}
	}

	var rows int64
	if err := gdb.Model(&db.CounterTime{}).Count(&rows).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single row per counter and day, got %d", rows)
	}

	for i := 2; i >= 0; i-- {
		record, err := times.Decrement(counter.ID, day)
		if err != nil {
			t.Fatalf("Decrement returned error: %v", err)
		}
		if record.TimesCount != i {
			t.Fatalf("expected count %d, got %d", i, record.TimesCount)
		}
	}

	if _, err := times.Decrement(counter.ID, day); !errors.Is(err, ErrCounterAtZero) {
		t.Fatalf("expected ErrCounterAtZero, got %v", err)
	}

	today, err := times.Today(day)
	if err != nil {
		t.Fatalf("Today returned error: %v", err)
	}
	if len(today) != 1 || today[0].TimesCount != 0 {
		t.Fatalf("expected tally to stay at 0, got %+v", today)
	}

	// 新的一天从 1 开始
	next, err := times.Increment(counter.ID, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Increment returned error: %v", err)
	}
	if next.TimesCount != 1 {
		t.Fatalf("expected new day to start at 1, got %d", next.TimesCount)
	}
}
