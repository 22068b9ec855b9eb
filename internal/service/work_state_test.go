package service

import (
	"errors"
	"testing"
	"time"

	"github.com/daytrack/internal/db"
)

func openFragmentFixture(ticket string, kaos bool) *db.WorkFragment {
	fragment := &db.WorkFragment{StartTime: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), IsKaos: kaos}
	fragment.ID = 1
	if ticket != "" {
		fragment.Ticket = &ticket
	}
	return fragment
}

func TestStateOf(t *testing.T) {
	closedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	closed := openFragmentFixture("#12345", false)
	closed.EndTime = &closedAt

	tests := []struct {
		name     string
		fragment *db.WorkFragment
		want     WorkState
	}{
		{name: "nil", fragment: nil, want: WorkStateIdle},
		{name: "closed", fragment: closed, want: WorkStateIdle},
		{name: "management", fragment: openFragmentFixture("", false), want: WorkStateManagement},
		{name: "effective", fragment: openFragmentFixture("#12345", false), want: WorkStateEffective},
		{name: "kaos", fragment: openFragmentFixture("", true), want: WorkStateKaos},
		{name: "kaos wins over ticket", fragment: openFragmentFixture("#123456", true), want: WorkStateKaos},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.fragment); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseFragmentAction(t *testing.T) {
	if action, err := ParseFragmentAction(" Baptize "); err != nil || action != ActionBaptize {
		t.Fatalf("expected baptize, got %q (%v)", action, err)
	}
	if _, err := ParseFragmentAction("pause"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestPlanTransitionStart(t *testing.T) {
	plan, err := planTransition(nil, ActionStart, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Close || plan.Open == nil || plan.Open.IsKaos || plan.Open.Ticket != nil {
		t.Fatalf("expected plain open from idle, got %+v", plan)
	}

	plan, err = planTransition(openFragmentFixture("", false), ActionStart, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Keep {
		t.Fatalf("expected start on management to keep, got %+v", plan)
	}

	plan, err = planTransition(openFragmentFixture("#12345", false), ActionStart, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Close || plan.Open == nil {
		t.Fatalf("expected close and reopen from effective, got %+v", plan)
	}
}

func TestPlanTransitionAssign(t *testing.T) {
	for _, ticket := range []string{"#1234", "#123456", "12345", "#12a45", "", "#12345 ", " #12345"} {
		if _, err := planTransition(nil, ActionAssign, ticket); !errors.Is(err, ErrInvalidAssignTicket) {
			t.Fatalf("ticket %q: expected ErrInvalidAssignTicket, got %v", ticket, err)
		}
	}

	plan, err := planTransition(openFragmentFixture("", true), ActionAssign, "#12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Close || plan.Open == nil || plan.Open.Ticket == nil || *plan.Open.Ticket != "#12345" {
		t.Fatalf("expected close kaos and open ticketed, got %+v", plan)
	}

	plan, err = planTransition(openFragmentFixture("#12345", false), ActionAssign, "#12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Keep {
		t.Fatalf("expected same ticket to keep, got %+v", plan)
	}

	plan, err = planTransition(openFragmentFixture("#12345", false), ActionAssign, "#54321")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Keep || !plan.Close || plan.Open == nil {
		t.Fatalf("expected different ticket to switch, got %+v", plan)
	}
}

func TestPlanTransitionKaos(t *testing.T) {
	plan, err := planTransition(openFragmentFixture("", true), ActionKaos, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Keep {
		t.Fatalf("expected kaos on kaos to keep, got %+v", plan)
	}

	plan, err = planTransition(openFragmentFixture("#12345", false), ActionKaos, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Close || plan.Open == nil || !plan.Open.IsKaos {
		t.Fatalf("expected switch to kaos, got %+v", plan)
	}
}

func TestPlanTransitionBaptize(t *testing.T) {
	if _, err := planTransition(nil, ActionBaptize, "#123456"); !errors.Is(err, ErrNoActiveKaos) {
		t.Fatalf("expected ErrNoActiveKaos when idle, got %v", err)
	}
	if _, err := planTransition(openFragmentFixture("", false), ActionBaptize, "#123456"); !errors.Is(err, ErrNoActiveKaos) {
		t.Fatalf("expected ErrNoActiveKaos on management, got %v", err)
	}
	if _, err := planTransition(openFragmentFixture("", false), ActionBaptize, "bad"); !errors.Is(err, ErrNoActiveKaos) {
		t.Fatalf("expected kaos check before ticket format, got %v", err)
	}
	for _, ticket := range []string{"#12345", "#123456 ", " #123456"} {
		if _, err := planTransition(openFragmentFixture("", true), ActionBaptize, ticket); !errors.Is(err, ErrInvalidBaptizeTicket) {
			t.Fatalf("ticket %q: expected ErrInvalidBaptizeTicket, got %v", ticket, err)
		}
	}

	plan, err := planTransition(openFragmentFixture("", true), ActionBaptize, "#123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Close || plan.Open != nil || plan.CloseTicket == nil || *plan.CloseTicket != "#123456" {
		t.Fatalf("expected close with ticket and no reopen, got %+v", plan)
	}
}

func TestPlanTransitionStop(t *testing.T) {
	plan, err := planTransition(nil, ActionStop, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Close || plan.Open != nil {
		t.Fatalf("expected no-op stop when idle, got %+v", plan)
	}

	plan, err = planTransition(openFragmentFixture("", true), ActionStop, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Close || plan.Open != nil {
		t.Fatalf("expected close without reopen, got %+v", plan)
	}
}
