package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/daytrack/internal/db"
	"gorm.io/gorm"
)

// ErrWorkDayNotFound 当天还没有任何片段动作
var ErrWorkDayNotFound = errors.New("work day not found")

// FragmentCategory 是已关闭片段的归类
type FragmentCategory string

const (
	CategoryEffective  FragmentCategory = "effective"
	CategoryManagement FragmentCategory = "management"
	CategoryKaos       FragmentCategory = "kaos"
)

// ClassifyFragment 有工单即计为有效时间（包括洗礼过的 kaos），其次 kaos，其余为管理
func ClassifyFragment(fragment db.WorkFragment) FragmentCategory {
	switch {
	case fragment.HasTicket():
		return CategoryEffective
	case fragment.IsKaos:
		return CategoryKaos
	default:
		return CategoryManagement
	}
}

// DayTotals 三类时间的分钟数
type DayTotals struct {
	WorkedMinutes     int
	ManagementMinutes int
	KaosMinutes       int
}

// Total 返回三类之和
func (t DayTotals) Total() int {
	return t.WorkedMinutes + t.ManagementMinutes + t.KaosMinutes
}

// DaySummary 是按需计算的当日统计视图，不落库
type DaySummary struct {
	Day                 time.Time
	Totals              DayTotals
	FragmentCount       int
	OpenFragments       int
	EffectiveFragments  int
	ManagementFragments int
	KaosFragments       int
	AverageMinutes      float64
	LongestMinutes      int
	ShortestMinutes     int
	Productivity        float64
}

// AggregateFragments 对已关闭片段全集求和，进行中的片段不计入
func AggregateFragments(fragments []db.WorkFragment) DayTotals {
	var totals DayTotals
	for _, fragment := range fragments {
		if fragment.IsOpen() {
			continue
		}
		switch ClassifyFragment(fragment) {
		case CategoryEffective:
			totals.WorkedMinutes += fragment.DurationMinutes
		case CategoryKaos:
			totals.KaosMinutes += fragment.DurationMinutes
		default:
			totals.ManagementMinutes += fragment.DurationMinutes
		}
	}
	return totals
}

// SummarizeFragments 计算数量、平均/最长/最短时长与有效率
func SummarizeFragments(fragments []db.WorkFragment) DaySummary {
	summary := DaySummary{Totals: AggregateFragments(fragments)}

	for _, fragment := range fragments {
		if fragment.IsOpen() {
			summary.OpenFragments++
			continue
		}

		duration := fragment.DurationMinutes
		if summary.FragmentCount == 0 || duration > summary.LongestMinutes {
			summary.LongestMinutes = duration
		}
		if summary.FragmentCount == 0 || duration < summary.ShortestMinutes {
			summary.ShortestMinutes = duration
		}
		summary.FragmentCount++

		switch ClassifyFragment(fragment) {
		case CategoryEffective:
			summary.EffectiveFragments++
		case CategoryKaos:
			summary.KaosFragments++
		default:
			summary.ManagementFragments++
		}
	}

	total := summary.Totals.Total()
	if summary.FragmentCount > 0 {
		summary.AverageMinutes = float64(total) / float64(summary.FragmentCount)
	}
	summary.Productivity = productivity(summary.Totals)

	return summary
}

func productivity(totals DayTotals) float64 {
	total := totals.Total()
	if total == 0 {
		return 0
	}
	return float64(totals.WorkedMinutes) / float64(total) * 100
}

// WorkStatsService 负责按天重算并保存汇总
type WorkStatsService struct {
	db *gorm.DB
}

// NewWorkStatsService 构造 WorkStatsService
func NewWorkStatsService(gdb *gorm.DB) *WorkStatsService {
	return &WorkStatsService{db: gdb}
}

// Get 返回某天已保存的汇总记录
func (s *WorkStatsService) Get(day time.Time) (*db.WorkDayStats, error) {
	var stats db.WorkDayStats
	if err := s.db.Where("day = ?", db.NormalizeDay(day)).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkDayNotFound
		}
		return nil, fmt.Errorf("get work day: %w", err)
	}
	return &stats, nil
}

// Recompute 以当天已关闭片段全集重算三项时间并覆盖写入，可重复执行
func (s *WorkStatsService) Recompute(day time.Time) (*db.WorkDayStats, DayTotals, error) {
	var stats db.WorkDayStats
	var totals DayTotals

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Fragments").
			Where("day = ?", db.NormalizeDay(day)).
			First(&stats).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkDayNotFound
			}
			return fmt.Errorf("load work day: %w", err)
		}

		totals = AggregateFragments(stats.Fragments)
		if err := tx.Model(&stats).Updates(map[string]interface{}{
			"worked_minutes":     totals.WorkedMinutes,
			"management_minutes": totals.ManagementMinutes,
			"kaos_minutes":       totals.KaosMinutes,
		}).Error; err != nil {
			return fmt.Errorf("update work day: %w", err)
		}

		stats.WorkedMinutes = totals.WorkedMinutes
		stats.ManagementMinutes = totals.ManagementMinutes
		stats.KaosMinutes = totals.KaosMinutes
		return nil
	})
	if err != nil {
		return nil, DayTotals{}, err
	}

	return &stats, totals, nil
}

// Summary 从片段实时计算某天的统计视图
func (s *WorkStatsService) Summary(day time.Time) (DaySummary, error) {
	normalized := db.NormalizeDay(day)

	var fragments []db.WorkFragment
	if err := s.db.Where("day = ?", normalized).
		Order("start_time ASC").
		Find(&fragments).Error; err != nil {
		return DaySummary{}, fmt.Errorf("list fragments for summary: %w", err)
	}

	summary := SummarizeFragments(fragments)
	summary.Day = normalized
	return summary, nil
}
