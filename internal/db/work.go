package db

import (
	"time"

	"gorm.io/gorm"
)

// WorkDayStats 按天汇总工作时间
// Day 唯一，三项分钟数由聚合器整体覆盖写入，不做增量累加
type WorkDayStats struct {
	gorm.Model
	Day               time.Time      `gorm:"uniqueIndex;not null"`
	WorkedMinutes     int            `gorm:"default:0"`
	ManagementMinutes int            `gorm:"default:0"`
	KaosMinutes       int            `gorm:"default:0"`
	Fragments         []WorkFragment `gorm:"foreignKey:WorkDayID"`
}

// TableName 指定表名，避免复数化得到 work_day_stats 以外的名字。
func (WorkDayStats) TableName() string {
	return "work_day_stats"
}

// WorkFragment 记录一段连续的工作区间
// EndTime 为 nil 表示仍在进行；任一时刻最多只有一条进行中的记录
// DurationMinutes 在关闭前保持 0
type WorkFragment struct {
	gorm.Model
	WorkDayID       uint       `gorm:"index;not null"`
	Day             time.Time  `gorm:"index;not null"`
	StartTime       time.Time  `gorm:"index;not null"`
	EndTime         *time.Time `gorm:"index"`
	DurationMinutes int        `gorm:"default:0"`
	Ticket          *string    `gorm:"size:16"`
	IsKaos          bool       `gorm:"default:false"`
	MoodID          *uint
	Mood            *Mood `gorm:"constraint:OnDelete:SET NULL"`
}

// IsOpen 判断片段是否仍在进行
func (f WorkFragment) IsOpen() bool {
	return f.EndTime == nil
}

// HasTicket 判断片段是否带有工单号
func (f WorkFragment) HasTicket() bool {
	return f.Ticket != nil && *f.Ticket != ""
}

// Mood 是工作片段可选关联的心情
type Mood struct {
	gorm.Model
	Emoji string `gorm:"size:32;not null"`
	Name  string `gorm:"size:100"`
}
