package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daytrack/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCounterNotFound 在指定计数器不存在时返回
	ErrCounterNotFound = errors.New("counter not found")
	// ErrCounterEmojiRequired 计数器必须有 emoji
	ErrCounterEmojiRequired = errors.New("counter emoji is required")
	// ErrCounterTimeNotFound 当天还没有可以递减的计数
	ErrCounterTimeNotFound = errors.New("no counter time to decrement")
	// ErrCounterAtZero 计数已经为 0
	ErrCounterAtZero = errors.New("counter already at zero")
)

// CounterService 负责计数器定义的增改查
// Threshold 仅用于展示着色，不限制增减
type CounterService struct {
	db *gorm.DB
}

// CounterInput 定义创建/更新计数器时可配置字段
type CounterInput struct {
	Emoji           string
	Name            string
	Threshold       *int
	ExceedingIsGood bool
}

// NewCounterService 构造 CounterService
func NewCounterService(gdb *gorm.DB) *CounterService {
	return &CounterService{db: gdb}
}

// List 返回全部计数器，按名称排序
func (s *CounterService) List() ([]db.Counter, error) {
	var counters []db.Counter
	if err := s.db.Order("name ASC").Order("id ASC").Find(&counters).Error; err != nil {
		return nil, fmt.Errorf("list counters: %w", err)
	}
	return counters, nil
}

// Get 根据 ID 获取计数器
func (s *CounterService) Get(id uint) (*db.Counter, error) {
	var counter db.Counter
	if err := s.db.First(&counter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCounterNotFound
		}
		return nil, fmt.Errorf("get counter: %w", err)
	}
	return &counter, nil
}

// Create 新建计数器
func (s *CounterService) Create(input CounterInput) (*db.Counter, error) {
	if err := validateCounterInput(input); err != nil {
		return nil, err
	}

	counter := db.Counter{}
	applyCounterInput(&counter, input)

	if err := s.db.Create(&counter).Error; err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}
	return &counter, nil
}

// Update 更新计数器
func (s *CounterService) Update(id uint, input CounterInput) (*db.Counter, error) {
	if err := validateCounterInput(input); err != nil {
		return nil, err
	}

	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	applyCounterInput(existing, input)

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update counter: %w", err)
	}
	return existing, nil
}

func validateCounterInput(input CounterInput) error {
	if strings.TrimSpace(input.Emoji) == "" {
		return ErrCounterEmojiRequired
	}
	return nil
}

// applyCounterInput 空名称存为 NULL，阈值不大于 0 视为未设置
func applyCounterInput(counter *db.Counter, input CounterInput) {
	counter.Emoji = strings.TrimSpace(input.Emoji)

	counter.Name = nil
	if name := strings.TrimSpace(input.Name); name != "" {
		counter.Name = &name
	}

	counter.Threshold = nil
	if input.Threshold != nil && *input.Threshold > 0 {
		threshold := *input.Threshold
		counter.Threshold = &threshold
	}

	counter.ExceedingIsGood = input.ExceedingIsGood
}

// ThresholdStatus 描述计数相对阈值的展示状态
type ThresholdStatus string

const (
	ThresholdNone  ThresholdStatus = "none"
	ThresholdBelow ThresholdStatus = "below"
	ThresholdGood  ThresholdStatus = "good"
	ThresholdBad   ThresholdStatus = "bad"
)

// EvaluateThreshold 达到阈值（>=）后按 ExceedingIsGood 决定好坏
func EvaluateThreshold(counter db.Counter, times int) ThresholdStatus {
	if counter.Threshold == nil {
		return ThresholdNone
	}
	if times < *counter.Threshold {
		return ThresholdBelow
	}
	if counter.ExceedingIsGood {
		return ThresholdGood
	}
	return ThresholdBad
}

// CounterTimeService 负责每日计数的增减
type CounterTimeService struct {
	db *gorm.DB
}

// NewCounterTimeService 构造 CounterTimeService
func NewCounterTimeService(gdb *gorm.DB) *CounterTimeService {
	return &CounterTimeService{db: gdb}
}

// Today 返回某天的全部计数，附带计数器定义
func (s *CounterTimeService) Today(day time.Time) ([]db.CounterTime, error) {
	var times []db.CounterTime
	if err := s.db.Preload("Counter").
		Where("day = ?", db.NormalizeDay(day)).
		Order("counter_id ASC").
		Find(&times).Error; err != nil {
		return nil, fmt.Errorf("list counter times: %w", err)
	}
	return times, nil
}

// Increment 当天首次计数时创建记录，否则 +1
func (s *CounterTimeService) Increment(counterID uint, day time.Time) (*db.CounterTime, error) {
	normalized := db.NormalizeDay(day)

	var count int64
	if err := s.db.Model(&db.Counter{}).Where("id = ?", counterID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check counter: %w", err)
	}
	if count == 0 {
		return nil, ErrCounterNotFound
	}

	record := db.CounterTime{
		CounterID:  counterID,
		Day:        normalized,
		TimesCount: 1,
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "counter_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"times_count": gorm.Expr("counter_times.times_count + 1"),
			"updated_at":  time.Now(),
		}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("increment counter: %w", err)
	}

	return s.reload(counterID, normalized)
}

// Decrement 计数 -1；没有当天记录或已为 0 时返回错误且不修改
func (s *CounterTimeService) Decrement(counterID uint, day time.Time) (*db.CounterTime, error) {
	normalized := db.NormalizeDay(day)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.CounterTime
		if err := tx.Where("counter_id = ? AND day = ?", counterID, normalized).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCounterTimeNotFound
			}
			return fmt.Errorf("find counter time: %w", err)
		}

		if existing.TimesCount <= 0 {
			return ErrCounterAtZero
		}

		result := tx.Model(&existing).
			Where("times_count > 0").
			Update("times_count", gorm.Expr("times_count - 1"))
		if result.Error != nil {
			return fmt.Errorf("decrement counter: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCounterAtZero
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(counterID, normalized)
}

func (s *CounterTimeService) reload(counterID uint, day time.Time) (*db.CounterTime, error) {
	var record db.CounterTime
	if err := s.db.Preload("Counter").
		Where("counter_id = ? AND day = ?", counterID, day).
		First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload counter time: %w", err)
	}
	return &record, nil
}
