package handler

import (
	"time"

	"github.com/daytrack/internal/service"
	"github.com/daytrack/internal/staging"
	"gorm.io/gorm"
)

// Settings 是 handler 层需要的运行参数
type Settings struct {
	LoginEnabled bool
	Timezone     *time.Location
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db           *gorm.DB
	fragments    *service.WorkFragmentService
	workStats    *service.WorkStatsService
	counters     *service.CounterService
	counterTimes *service.CounterTimeService
	entries      *service.DailyEntryService
	moods        *service.MoodService
	loginEnabled bool
	timezone     *time.Location
	now          func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store *staging.Store, settings Settings) *API {
	timezone := settings.Timezone
	if timezone == nil {
		timezone = time.Local
	}

	return &API{
		db:           gdb,
		fragments:    service.NewWorkFragmentService(gdb),
		workStats:    service.NewWorkStatsService(gdb),
		counters:     service.NewCounterService(gdb),
		counterTimes: service.NewCounterTimeService(gdb),
		entries:      service.NewDailyEntryService(gdb, store),
		moods:        service.NewMoodService(gdb),
		loginEnabled: settings.LoginEnabled,
		timezone:     timezone,
		now:          time.Now,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
