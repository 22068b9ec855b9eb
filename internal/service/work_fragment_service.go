package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/daytrack/internal/db"
	"gorm.io/gorm"
)

// ErrMoodNotFound 请求中的 moodId 不存在
var ErrMoodNotFound = errors.New("mood not found")

// WorkFragmentService 负责工作片段的状态流转与查询
// 进行中的片段始终通过查询得到（end_time IS NULL 中最新的一条），不在进程内缓存
type WorkFragmentService struct {
	db  *gorm.DB
	now func() time.Time
}

// FragmentRequest 描述一次片段动作
type FragmentRequest struct {
	Action   FragmentAction
	Ticket   string
	MoodID   uint
	Location *time.Location
}

// FragmentResult 是动作执行后的结果
// Fragment 为动作返回的片段：保持/新开时为进行中的片段，stop/baptize 时为刚关闭的片段
type FragmentResult struct {
	Fragment *db.WorkFragment
	State    WorkState
	Changed  bool
}

// NewWorkFragmentService 构造 WorkFragmentService
func NewWorkFragmentService(gdb *gorm.DB) *WorkFragmentService {
	return &WorkFragmentService{db: gdb, now: time.Now}
}

// Active 返回当前进行中的片段，没有时返回 nil
func (s *WorkFragmentService) Active() (*db.WorkFragment, error) {
	active, err := findActiveFragment(s.db.Preload("Mood"))
	if err != nil {
		return nil, fmt.Errorf("find active fragment: %w", err)
	}
	return active, nil
}

// ListDay 返回某天的全部片段，按开始时间升序
func (s *WorkFragmentService) ListDay(day time.Time) ([]db.WorkFragment, error) {
	var fragments []db.WorkFragment
	if err := s.db.Preload("Mood").
		Where("day = ?", db.NormalizeDay(day)).
		Order("start_time ASC").
		Order("id ASC").
		Find(&fragments).Error; err != nil {
		return nil, fmt.Errorf("list fragments: %w", err)
	}
	return fragments, nil
}

// Today 返回请求方所在时区当天的日期键
func (s *WorkFragmentService) Today(loc *time.Location) time.Time {
	return db.NormalizeDay(s.now().In(locationOrLocal(loc)))
}

// Apply 在一个事务内读取进行中的片段、计算流转并落库
func (s *WorkFragmentService) Apply(req FragmentRequest) (*FragmentResult, error) {
	now := s.now().UTC()
	day := db.NormalizeDay(now.In(locationOrLocal(req.Location)))

	var result FragmentResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		workDay, err := findOrCreateWorkDay(tx, day)
		if err != nil {
			return err
		}

		active, err := findActiveFragment(tx)
		if err != nil {
			return fmt.Errorf("find active fragment: %w", err)
		}

		plan, err := planTransition(active, req.Action, req.Ticket)
		if err != nil {
			return err
		}

		if plan.Keep {
			result.Fragment = active
			return nil
		}

		if plan.Close && active != nil {
			if err := closeFragment(tx, active, now, plan.CloseTicket); err != nil {
				return err
			}
			result.Fragment = active
			result.Changed = true
		}

		if plan.Open != nil {
			opened, err := openFragment(tx, workDay, now, *plan.Open, req.MoodID)
			if err != nil {
				return err
			}
			result.Fragment = opened
			result.Changed = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Fragment != nil {
		if err := s.db.Preload("Mood").First(result.Fragment, result.Fragment.ID).Error; err != nil {
			return nil, fmt.Errorf("reload fragment: %w", err)
		}
		if result.Fragment.IsOpen() {
			result.State = StateOf(result.Fragment)
		} else {
			result.State = WorkStateIdle
		}
	} else {
		result.State = WorkStateIdle
	}

	return &result, nil
}

func findActiveFragment(tx *gorm.DB) (*db.WorkFragment, error) {
	var fragment db.WorkFragment
	err := tx.Where("end_time IS NULL").
		Order("start_time DESC").
		Order("id DESC").
		First(&fragment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fragment, nil
}

func findOrCreateWorkDay(tx *gorm.DB, day time.Time) (*db.WorkDayStats, error) {
	var workDay db.WorkDayStats
	if err := tx.Where(db.WorkDayStats{Day: day}).FirstOrCreate(&workDay).Error; err != nil {
		return nil, fmt.Errorf("find or create work day: %w", err)
	}
	return &workDay, nil
}

func closeFragment(tx *gorm.DB, fragment *db.WorkFragment, now time.Time, ticket *string) error {
	duration := fragmentMinutes(fragment.StartTime, now)
	updates := map[string]interface{}{
		"end_time":         now,
		"duration_minutes": duration,
	}
	if ticket != nil {
		updates["ticket"] = *ticket
	}

	if err := tx.Model(fragment).Updates(updates).Error; err != nil {
		return fmt.Errorf("close fragment %d: %w", fragment.ID, err)
	}

	fragment.EndTime = &now
	fragment.DurationMinutes = duration
	if ticket != nil {
		fragment.Ticket = ticket
	}
	return nil
}

func openFragment(tx *gorm.DB, workDay *db.WorkDayStats, now time.Time, opening fragmentOpening, moodID uint) (*db.WorkFragment, error) {
	fragment := db.WorkFragment{
		WorkDayID: workDay.ID,
		Day:       workDay.Day,
		StartTime: now,
		Ticket:    opening.Ticket,
		IsKaos:    opening.IsKaos,
	}

	if moodID != 0 {
		var count int64
		if err := tx.Model(&db.Mood{}).Where("id = ?", moodID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check mood: %w", err)
		}
		if count == 0 {
			return nil, ErrMoodNotFound
		}
		fragment.MoodID = &moodID
	}

	if err := tx.Create(&fragment).Error; err != nil {
		return nil, fmt.Errorf("open fragment: %w", err)
	}
	return &fragment, nil
}

// fragmentMinutes 四舍五入到分钟，时钟回拨时不产生负数
func fragmentMinutes(start, end time.Time) int {
	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
