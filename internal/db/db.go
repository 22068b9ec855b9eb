package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultDatabasePath = "data/daytrack.db"
)

// Options 描述数据库连接方式。
// Driver 为空时使用 sqlite；postgres 需要提供 DSN。
type Options struct {
	Driver   string
	Path     string
	DSN      string
	LogLevel string
}

// Init 初始化数据库连接并执行自动迁移。
func Init(opts Options) error {
	gdb, err := Open(opts)
	if err != nil {
		return err
	}

	if err := Migrate(gdb); err != nil {
		return err
	}

	DB = gdb
	return nil
}

// Open 根据驱动建立连接，不执行迁移。
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	return gorm.Open(dialector, &gorm.Config{Logger: newLogger(opts.LogLevel)})
}

// Migrate 为所有模型创建/更新表结构
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Mood{},
		&WorkDayStats{},
		&WorkFragment{},
		&Counter{},
		&CounterTime{},
		&Activity{},
		&DailyEntry{},
		&EntryActivity{},
		&CustomMetric{},
	)
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverSQLite:
		path := strings.TrimSpace(opts.Path)
		if path == "" {
			path = defaultDatabasePath
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return sqlite.Open(path), nil
	case DriverPostgres:
		dsn := strings.TrimSpace(opts.DSN)
		if dsn == "" {
			return nil, errors.New("postgres driver requires a dsn")
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func newLogger(level string) logger.Interface {
	var logLevel logger.LogLevel
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func ensureParentDir(path string) error {
	if strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}

// NormalizeDay 将任意时间转换为其日历日期对应的 UTC 零点，作为按天分桶的键。
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
