package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/daytrack/internal/db"
	"gorm.io/gorm"
)

// ErrMoodEmojiRequired 心情必须有 emoji
var ErrMoodEmojiRequired = errors.New("mood emoji is required")

// MoodService 管理片段可关联的心情
type MoodService struct {
	db *gorm.DB
}

// NewMoodService 构造 MoodService
func NewMoodService(gdb *gorm.DB) *MoodService {
	return &MoodService{db: gdb}
}

// List 返回全部心情
func (s *MoodService) List() ([]db.Mood, error) {
	var moods []db.Mood
	if err := s.db.Order("id ASC").Find(&moods).Error; err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	return moods, nil
}

// Create 新建心情
func (s *MoodService) Create(emoji, name string) (*db.Mood, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, ErrMoodEmojiRequired
	}

	mood := db.Mood{Emoji: emoji, Name: strings.TrimSpace(name)}
	if err := s.db.Create(&mood).Error; err != nil {
		return nil, fmt.Errorf("create mood: %w", err)
	}
	return &mood, nil
}
