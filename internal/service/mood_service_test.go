package service

import (
	"errors"
	"testing"
)

func TestMoodServiceCreateAndList(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewMoodService(gdb)

	if _, err := svc.Create(" ", "blank"); !errors.Is(err, ErrMoodEmojiRequired) {
		t.Fatalf("expected ErrMoodEmojiRequired, got %v", err)
	}

	for _, emoji := range []string{"😀", "😫"} {
		if _, err := svc.Create(emoji, ""); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	moods, err := svc.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(moods) != 2 || moods[0].Emoji != "😀" {
		t.Fatalf("unexpected moods: %+v", moods)
	}
}
