package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/staging"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entryDateFormat = "2006-01-02"

var (
	// ErrEntryInvalid 日志缺少必填项或字段不合法
	ErrEntryInvalid = errors.New("invalid daily entry")
	// ErrEntryNotFound 指定日期没有日志
	ErrEntryNotFound = errors.New("daily entry not found")
	// ErrEntryExists 指定日期已经入库
	ErrEntryExists = errors.New("daily entry already recorded")
)

// DailyEntryInput 是表单提交的原始内容
type DailyEntryInput struct {
	Date          string
	MoodScore     int
	Activities    []staging.Activity
	CustomMetrics []staging.Metric
	Notes         string
}

// DailyEntrySaveResult 汇报暂存与入库两个阶段的结果
// Warning 非空表示 JSON 已保存但数据库写入失败
type DailyEntrySaveResult struct {
	JSONPath string
	EntryID  uint
	Warning  string
}

// DailyEntryService 先写 JSON 暂存，再提交到关系库
type DailyEntryService struct {
	db      *gorm.DB
	staging *staging.Store
	now     func() time.Time
}

// NewDailyEntryService 构造 DailyEntryService
func NewDailyEntryService(gdb *gorm.DB, store *staging.Store) *DailyEntryService {
	return &DailyEntryService{db: gdb, staging: store, now: time.Now}
}

// Save 校验后先暂存，再尝试入库；入库失败只降级为警告
func (s *DailyEntryService) Save(input DailyEntryInput) (*DailyEntrySaveResult, error) {
	if err := validateDailyEntryInput(input); err != nil {
		return nil, err
	}

	snapshot := staging.Snapshot{
		Date:          strings.TrimSpace(input.Date),
		MoodScore:     input.MoodScore,
		Activities:    trimActivities(input.Activities),
		CustomMetrics: trimMetrics(input.CustomMetrics),
		Notes:         strings.TrimSpace(input.Notes),
		Timestamp:     s.now().Format(time.RFC3339),
		SubmissionID:  uuid.NewString(),
	}

	path, err := s.staging.Write(snapshot)
	if err != nil {
		return nil, fmt.Errorf("stage daily entry: %w", err)
	}
	log.Printf("[daily-entry] staged %s", path)

	result := &DailyEntrySaveResult{JSONPath: path}

	entryID, err := s.Commit(snapshot.Date)
	if err != nil {
		log.Printf("[daily-entry] commit %s failed, staged copy kept: %v", snapshot.Date, err)
		result.Warning = err.Error()
		return result, nil
	}

	result.EntryID = entryID
	return result, nil
}

// Commit 读取暂存快照并在一个事务内写入日志、活动与自定义指标
func (s *DailyEntryService) Commit(date string) (uint, error) {
	snapshot, err := s.staging.Read(date)
	if err != nil {
		return 0, err
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("encode raw payload: %w", err)
	}

	entry := db.DailyEntry{
		EntryDate:  snapshot.Date,
		MoodScore:  snapshot.MoodScore,
		Notes:      snapshot.Notes,
		RawPayload: string(raw),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.DailyEntry{}).Where("entry_date = ?", snapshot.Date).Count(&count).Error; err != nil {
			return fmt.Errorf("check daily entry: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrEntryExists, snapshot.Date)
		}

		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create daily entry: %w", err)
		}

		for _, item := range snapshot.Activities {
			activity, err := ensureActivity(tx, item)
			if err != nil {
				return err
			}

			link := db.EntryActivity{
				EntryID:         entry.ID,
				ActivityID:      activity.ID,
				DurationMinutes: item.Duration,
				Intensity:       item.Intensity,
			}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("link activity %q: %w", item.Name, err)
			}
		}

		for _, metric := range snapshot.CustomMetrics {
			record := db.CustomMetric{
				EntryID: entry.ID,
				Name:    metric.Name,
				Value:   metric.Value,
				Unit:    metric.Unit,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("create custom metric %q: %w", metric.Name, err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return entry.ID, nil
}

// ReplayPending 将尚未入库的暂存快照补提交，返回成功提交的日期
func (s *DailyEntryService) ReplayPending() ([]string, error) {
	var recorded []string
	if err := s.db.Model(&db.DailyEntry{}).Pluck("entry_date", &recorded).Error; err != nil {
		return nil, fmt.Errorf("list recorded dates: %w", err)
	}

	done := make(map[string]struct{}, len(recorded))
	for _, date := range recorded {
		done[date] = struct{}{}
	}

	committed := make([]string, 0)
	for _, date := range s.staging.Dates() {
		if _, ok := done[date]; ok {
			continue
		}
		if _, err := s.Commit(date); err != nil {
			return committed, fmt.Errorf("replay %s: %w", date, err)
		}
		committed = append(committed, date)
	}
	return committed, nil
}

// Staged 返回某天的暂存快照
func (s *DailyEntryService) Staged(date string) (*staging.Snapshot, error) {
	if _, err := time.Parse(entryDateFormat, strings.TrimSpace(date)); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrEntryInvalid)
	}
	return s.staging.Read(strings.TrimSpace(date))
}

// List 返回全部日志，日期倒序
func (s *DailyEntryService) List() ([]db.DailyEntry, error) {
	var entries []db.DailyEntry
	if err := s.db.Order("entry_date DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list daily entries: %w", err)
	}
	return entries, nil
}

// Get 返回某天的日志及其活动与指标
func (s *DailyEntryService) Get(date string) (*db.DailyEntry, error) {
	var entry db.DailyEntry
	if err := s.db.Preload("Activities.Activity").
		Preload("CustomMetrics").
		Where("entry_date = ?", strings.TrimSpace(date)).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get daily entry: %w", err)
	}
	return &entry, nil
}

// ensureActivity 按名称复用活动；插入冲突时回查已有记录
func ensureActivity(tx *gorm.DB, item staging.Activity) (*db.Activity, error) {
	var activity db.Activity
	err := tx.Where("name = ?", item.Name).First(&activity).Error
	if err == nil {
		return &activity, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find activity %q: %w", item.Name, err)
	}

	activity = db.Activity{Name: item.Name, Category: item.Category}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&activity).Error; err != nil {
		return nil, fmt.Errorf("create activity %q: %w", item.Name, err)
	}

	if activity.ID == 0 {
		if err := tx.Where("name = ?", item.Name).First(&activity).Error; err != nil {
			return nil, fmt.Errorf("reload activity %q: %w", item.Name, err)
		}
	}
	return &activity, nil
}

func validateDailyEntryInput(input DailyEntryInput) error {
	date := strings.TrimSpace(input.Date)
	if date == "" {
		return fmt.Errorf("%w: date is required", ErrEntryInvalid)
	}
	if _, err := time.Parse(entryDateFormat, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrEntryInvalid)
	}
	if input.MoodScore < 1 || input.MoodScore > 10 {
		return fmt.Errorf("%w: mood score must be between 1 and 10", ErrEntryInvalid)
	}

	for i, activity := range input.Activities {
		if strings.TrimSpace(activity.Name) == "" {
			return fmt.Errorf("%w: activity %d has no name", ErrEntryInvalid, i+1)
		}
		if activity.Intensity != nil && (*activity.Intensity < 1 || *activity.Intensity > 5) {
			return fmt.Errorf("%w: activity %q intensity must be between 1 and 5", ErrEntryInvalid, activity.Name)
		}
	}

	for i, metric := range input.CustomMetrics {
		if strings.TrimSpace(metric.Name) == "" {
			return fmt.Errorf("%w: metric %d has no name", ErrEntryInvalid, i+1)
		}
	}

	return nil
}

func trimActivities(items []staging.Activity) []staging.Activity {
	out := make([]staging.Activity, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.Category = strings.TrimSpace(item.Category)
		out = append(out, item)
	}
	return out
}

func trimMetrics(items []staging.Metric) []staging.Metric {
	out := make([]staging.Metric, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		item.Unit = strings.TrimSpace(item.Unit)
		out = append(out, item)
	}
	return out
}
