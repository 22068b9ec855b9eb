package db

import (
	"time"

	"gorm.io/gorm"
)

// Counter 定义了计数器
// Threshold 为空表示无目标；ExceedingIsGood 只影响展示颜色
type Counter struct {
	gorm.Model
	Emoji           string  `gorm:"size:32;not null"`
	Name            *string `gorm:"size:100"`
	Threshold       *int
	ExceedingIsGood bool `gorm:"default:false"`
}

// CounterTime 记录计数器在某一天的次数
// CounterID + Day 采用唯一索引，保证每天一行
type CounterTime struct {
	gorm.Model
	CounterID  uint      `gorm:"index;index:idx_counter_time_unique,unique"`
	Counter    Counter   `gorm:"constraint:OnDelete:CASCADE"`
	Day        time.Time `gorm:"index:idx_counter_time_unique,unique"`
	TimesCount int       `gorm:"default:0"`
}

// TableName 重写确保唯一索引作用到 counter_id + day
func (CounterTime) TableName() string {
	return "counter_times"
}
