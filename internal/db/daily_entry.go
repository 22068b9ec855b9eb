package db

import "gorm.io/gorm"

// DailyEntry 每天一条的心情日志，RawPayload 保存暂存区中的原始 JSON
type DailyEntry struct {
	gorm.Model
	EntryDate     string          `gorm:"size:10;uniqueIndex;not null"`
	MoodScore     int             `gorm:"not null"`
	Notes         string          `gorm:"type:text"`
	RawPayload    string          `gorm:"type:text"`
	Activities    []EntryActivity `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	CustomMetrics []CustomMetric  `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

// Activity 按名称去重的活动目录
type Activity struct {
	gorm.Model
	Name     string `gorm:"size:100;uniqueIndex;not null"`
	Category string `gorm:"size:100"`
}

// EntryActivity 将活动关联到某天的日志
type EntryActivity struct {
	gorm.Model
	EntryID         uint `gorm:"index;not null"`
	ActivityID      uint `gorm:"index;not null"`
	Activity        Activity
	DurationMinutes *int
	Intensity       *int
	Notes           string
}

// CustomMetric 自定义数值指标
type CustomMetric struct {
	gorm.Model
	EntryID uint    `gorm:"index;not null"`
	Name    string  `gorm:"size:100;not null"`
	Value   float64 `gorm:"not null"`
	Unit    string  `gorm:"size:32"`
}
