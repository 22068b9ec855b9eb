package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/daytrack/internal/db"
)

// WorkState 是由进行中片段推导出的工作状态
type WorkState string

const (
	WorkStateIdle       WorkState = "idle"
	WorkStateManagement WorkState = "management"
	WorkStateEffective  WorkState = "effective"
	WorkStateKaos       WorkState = "kaos"
)

// FragmentAction 是前端可触发的片段动作
type FragmentAction string

const (
	ActionStart   FragmentAction = "start"
	ActionAssign  FragmentAction = "assign"
	ActionBaptize FragmentAction = "baptize"
	ActionKaos    FragmentAction = "kaos"
	ActionStop    FragmentAction = "stop"
)

var (
	// ErrInvalidAction 动作不在支持范围内
	ErrInvalidAction = errors.New("invalid fragment action")
	// ErrInvalidAssignTicket 分配工单需要 # 加 5 位数字
	ErrInvalidAssignTicket = errors.New("ticket must be # followed by 5 digits")
	// ErrInvalidBaptizeTicket 洗礼工单需要 # 加 6 位数字
	ErrInvalidBaptizeTicket = errors.New("ticket must be # followed by 6 digits")
	// ErrNoActiveKaos 洗礼时没有进行中的 kaos 片段
	ErrNoActiveKaos = errors.New("no active kaos fragment")
)

var (
	assignTicketPattern  = regexp.MustCompile(`^#\d{5}$`)
	baptizeTicketPattern = regexp.MustCompile(`^#\d{6}$`)
)

// StateOf 根据进行中的片段推导状态；kaos 优先于工单号
func StateOf(active *db.WorkFragment) WorkState {
	switch {
	case active == nil || !active.IsOpen():
		return WorkStateIdle
	case active.IsKaos:
		return WorkStateKaos
	case active.HasTicket():
		return WorkStateEffective
	default:
		return WorkStateManagement
	}
}

// ParseFragmentAction 规范化动作名称
func ParseFragmentAction(raw string) (FragmentAction, error) {
	action := FragmentAction(strings.ToLower(strings.TrimSpace(raw)))
	switch action {
	case ActionStart, ActionAssign, ActionBaptize, ActionKaos, ActionStop:
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, raw)
	}
}

// fragmentOpening 描述需要新开的片段
type fragmentOpening struct {
	Ticket *string
	IsKaos bool
}

// transitionPlan 是状态机对一次动作给出的执行计划
// Keep 为 true 时保持现状并返回进行中的片段
// Close 表示先关闭进行中的片段；CloseTicket 非空时一并写入工单号
// Open 非空时新开片段
type transitionPlan struct {
	Keep        bool
	Close       bool
	CloseTicket *string
	Open        *fragmentOpening
}

// planTransition 只做决策，不访问存储
func planTransition(active *db.WorkFragment, action FragmentAction, ticket string) (transitionPlan, error) {
	state := StateOf(active)
	hasActive := state != WorkStateIdle

	switch action {
	case ActionStart:
		if state == WorkStateManagement {
			return transitionPlan{Keep: true}, nil
		}
		return transitionPlan{Close: hasActive, Open: &fragmentOpening{}}, nil

	case ActionAssign:
		if !assignTicketPattern.MatchString(ticket) {
			return transitionPlan{}, ErrInvalidAssignTicket
		}
		if state == WorkStateEffective && *active.Ticket == ticket {
			return transitionPlan{Keep: true}, nil
		}
		return transitionPlan{Close: hasActive, Open: &fragmentOpening{Ticket: &ticket}}, nil

	case ActionKaos:
		if state == WorkStateKaos && !active.HasTicket() {
			return transitionPlan{Keep: true}, nil
		}
		return transitionPlan{Close: hasActive, Open: &fragmentOpening{IsKaos: true}}, nil

	case ActionBaptize:
		if state != WorkStateKaos {
			return transitionPlan{}, ErrNoActiveKaos
		}
		if !baptizeTicketPattern.MatchString(ticket) {
			return transitionPlan{}, ErrInvalidBaptizeTicket
		}
		return transitionPlan{Close: true, CloseTicket: &ticket}, nil

	case ActionStop:
		return transitionPlan{Close: hasActive}, nil

	default:
		return transitionPlan{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
}
