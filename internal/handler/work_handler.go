package handler

import (
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/service"
	"github.com/gin-gonic/gin"
)

type fragmentActionRequest struct {
	Action string `json:"action"`
	Ticket string `json:"ticket"`
	MoodID uint   `json:"moodId"`
}

// GetWorkFragments 默认返回进行中的片段；?all=true 返回当天全部片段
func (a *API) GetWorkFragments(c *gin.Context) {
	if c.Query("all") == "true" {
		fragments, err := a.fragments.ListDay(a.today(c))
		if err != nil {
			log.Printf("[work] list fragments: %v", err)
			respondError(c, http.StatusInternalServerError, msgLoadFragmentFailed)
			return
		}

		items := make([]gin.H, 0, len(fragments))
		for _, fragment := range fragments {
			items = append(items, fragmentToPayload(&fragment))
		}
		c.JSON(http.StatusOK, gin.H{"fragments": items})
		return
	}

	active, err := a.fragments.Active()
	if err != nil {
		log.Printf("[work] active fragment: %v", err)
		respondError(c, http.StatusInternalServerError, msgLoadFragmentFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fragment": fragmentToPayload(active),
		"state":    service.StateOf(active),
	})
}

// PostWorkFragmentAction 执行 start/assign/baptize/kaos/stop
func (a *API) PostWorkFragmentAction(c *gin.Context) {
	var req fragmentActionRequest
	if !bindJSON(c, &req) {
		return
	}

	action, err := service.ParseFragmentAction(req.Action)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidAction)
		return
	}

	result, err := a.fragments.Apply(service.FragmentRequest{
		Action:   action,
		Ticket:   req.Ticket,
		MoodID:   req.MoodID,
		Location: a.requestLocation(c),
	})
	if err != nil {
		handleFragmentError(c, err)
		return
	}

	if action == service.ActionStop {
		msg := msgFragmentClosed
		if !result.Changed {
			msg = msgNoActiveFragment
		}
		respondMessage(c, http.StatusOK, msg, gin.H{
			"fragment": fragmentToPayload(result.Fragment),
			"state":    result.State,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fragment": fragmentToPayload(result.Fragment),
		"state":    result.State,
		"changed":  result.Changed,
	})
}

// GetWorkDaySummary 实时计算某天的片段统计
func (a *API) GetWorkDaySummary(c *gin.Context) {
	day, err := a.requestDay(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidDate)
		return
	}

	summary, err := a.workStats.Summary(day)
	if err != nil {
		log.Printf("[work] summary: %v", err)
		respondError(c, http.StatusInternalServerError, msgLoadFragmentFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summaryToPayload(summary)})
}

// GetWorkDayStats 返回已保存的当天汇总
func (a *API) GetWorkDayStats(c *gin.Context) {
	day, err := a.requestDay(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidDate)
		return
	}

	stats, err := a.workStats.Get(day)
	if err != nil {
		if errors.Is(err, service.ErrWorkDayNotFound) {
			respondMessage(c, http.StatusOK, msgNoFragmentsForDay, gin.H{"stats": nil})
			return
		}
		log.Printf("[work] get day stats: %v", err)
		respondError(c, http.StatusInternalServerError, msgStatsFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": workDayToPayload(stats)})
}

// RecomputeWorkDayStats 以当天已关闭片段重算汇总
func (a *API) RecomputeWorkDayStats(c *gin.Context) {
	day, err := a.requestDay(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidDate)
		return
	}

	_, totals, err := a.workStats.Recompute(day)
	if err != nil {
		if errors.Is(err, service.ErrWorkDayNotFound) {
			respondMessage(c, http.StatusOK, msgNoFragmentsForDay, nil)
			return
		}
		log.Printf("[work] recompute day stats: %v", err)
		respondError(c, http.StatusInternalServerError, msgStatsFailed)
		return
	}

	respondMessage(c, http.StatusOK, msgStatsUpdated, gin.H{
		"stats": gin.H{
			"workedTime": totals.WorkedMinutes,
			"mngmtTime":  totals.ManagementMinutes,
			"kaosTime":   totals.KaosMinutes,
			"total":      totals.Total(),
		},
	})
}

func handleFragmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAction):
		respondError(c, http.StatusBadRequest, msgInvalidAction)
	case errors.Is(err, service.ErrInvalidAssignTicket):
		respondError(c, http.StatusBadRequest, msgInvalidAssignTicket)
	case errors.Is(err, service.ErrInvalidBaptizeTicket):
		respondError(c, http.StatusBadRequest, msgInvalidBaptizeTicket)
	case errors.Is(err, service.ErrNoActiveKaos):
		respondError(c, http.StatusBadRequest, msgNoActiveKaos)
	case errors.Is(err, service.ErrMoodNotFound):
		respondError(c, http.StatusBadRequest, msgMoodNotFound)
	default:
		log.Printf("[work] fragment action: %v", err)
		respondError(c, http.StatusInternalServerError, msgFragmentFailed)
	}
}

func fragmentToPayload(fragment *db.WorkFragment) gin.H {
	if fragment == nil {
		return nil
	}

	payload := gin.H{
		"id":        fragment.ID,
		"workDayId": fragment.WorkDayID,
		"day":       fragment.Day.Format(dateFormat),
		"startTime": fragment.StartTime.Format(timeLayout),
		"endTime":   formatOptionalTime(fragment.EndTime),
		"duration":  fragment.DurationMinutes,
		"ticket":    optionalString(fragment.Ticket),
		"isKaos":    fragment.IsKaos,
		"moodId":    fragment.MoodID,
		"category":  nil,
	}
	if !fragment.IsOpen() {
		payload["category"] = service.ClassifyFragment(*fragment)
	}
	if fragment.Mood != nil {
		payload["mood"] = moodToPayload(*fragment.Mood)
	}
	return payload
}

func workDayToPayload(stats *db.WorkDayStats) gin.H {
	return gin.H{
		"id":         stats.ID,
		"date":       stats.Day.Format(dateFormat),
		"workedTime": stats.WorkedMinutes,
		"mngmtTime":  stats.ManagementMinutes,
		"kaosTime":   stats.KaosMinutes,
		"total":      stats.WorkedMinutes + stats.ManagementMinutes + stats.KaosMinutes,
	}
}

func summaryToPayload(summary service.DaySummary) gin.H {
	return gin.H{
		"date":                summary.Day.Format(dateFormat),
		"workedTime":          summary.Totals.WorkedMinutes,
		"mngmtTime":           summary.Totals.ManagementMinutes,
		"kaosTime":            summary.Totals.KaosMinutes,
		"totalTime":           summary.Totals.Total(),
		"totalFragments":      summary.FragmentCount,
		"openFragments":       summary.OpenFragments,
		"effectiveFragments":  summary.EffectiveFragments,
		"gestionFragments":    summary.ManagementFragments,
		"kaosFragments":       summary.KaosFragments,
		"avgFragmentDuration": roundOneDecimal(summary.AverageMinutes),
		"longestFragment":     summary.LongestMinutes,
		"shortestFragment":    summary.ShortestMinutes,
		"productivity":        roundOneDecimal(summary.Productivity),
	}
}

func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
