package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/service"
	"github.com/gin-gonic/gin"
)

type counterRequest struct {
	ID              uint   `json:"id"`
	Emoji           string `json:"emoji"`
	Name            string `json:"name"`
	Threshold       *int   `json:"threshold"`
	ExceedingIsGood bool   `json:"exceedingIsGood"`
}

func (r counterRequest) input() service.CounterInput {
	return service.CounterInput{
		Emoji:           r.Emoji,
		Name:            r.Name,
		Threshold:       r.Threshold,
		ExceedingIsGood: r.ExceedingIsGood,
	}
}

type counterTimeRequest struct {
	CounterID uint `json:"counterId"`
}

// GetCounters 返回全部计数器
func (a *API) GetCounters(c *gin.Context) {
	counters, err := a.counters.List()
	if err != nil {
		handleCounterError(c, err)
		return
	}

	items := make([]gin.H, 0, len(counters))
	for _, counter := range counters {
		items = append(items, counterToPayload(counter))
	}
	c.JSON(http.StatusOK, gin.H{"counters": items})
}

// CreateCounter 新建计数器
func (a *API) CreateCounter(c *gin.Context) {
	var req counterRequest
	if !bindJSON(c, &req) {
		return
	}

	counter, err := a.counters.Create(req.input())
	if err != nil {
		handleCounterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counter": counterToPayload(*counter)})
}

// UpdateCounter 更新计数器；id 取路径参数，缺省时读取请求体中的 id
func (a *API) UpdateCounter(c *gin.Context) {
	var req counterRequest
	if !bindJSON(c, &req) {
		return
	}

	id := req.ID
	if c.Param("id") != "" {
		parsed, err := parseUintParam(c, "id")
		if err != nil {
			respondError(c, http.StatusBadRequest, msgInvalidID)
			return
		}
		id = parsed
	}
	if id == 0 {
		respondError(c, http.StatusBadRequest, msgInvalidID)
		return
	}

	counter, err := a.counters.Update(id, req.input())
	if err != nil {
		handleCounterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counter": counterToPayload(*counter)})
}

// GetCounterTimes 返回今天的计数及阈值状态
func (a *API) GetCounterTimes(c *gin.Context) {
	times, err := a.counterTimes.Today(a.today(c))
	if err != nil {
		handleCounterError(c, err)
		return
	}

	items := make([]gin.H, 0, len(times))
	for _, record := range times {
		items = append(items, counterTimeToPayload(record))
	}
	c.JSON(http.StatusOK, gin.H{"counterTimes": items})
}

// IncrementCounter 今天的计数 +1
func (a *API) IncrementCounter(c *gin.Context) {
	counterID, ok := a.bindCounterID(c)
	if !ok {
		return
	}

	record, err := a.counterTimes.Increment(counterID, a.today(c))
	if err != nil {
		handleCounterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counterTime": counterTimeToPayload(*record)})
}

// DecrementCounter 今天的计数 -1，不会低于 0
func (a *API) DecrementCounter(c *gin.Context) {
	counterID, ok := a.bindCounterID(c)
	if !ok {
		return
	}

	record, err := a.counterTimes.Decrement(counterID, a.today(c))
	if err != nil {
		handleCounterError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counterTime": counterTimeToPayload(*record)})
}

func (a *API) bindCounterID(c *gin.Context) (uint, bool) {
	var req counterTimeRequest
	if !bindJSON(c, &req) {
		return 0, false
	}
	if req.CounterID == 0 {
		respondError(c, http.StatusBadRequest, msgCounterIDRequired)
		return 0, false
	}
	return req.CounterID, true
}

func handleCounterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCounterNotFound):
		respondError(c, http.StatusNotFound, msgCounterNotFound)
	case errors.Is(err, service.ErrCounterEmojiRequired):
		respondError(c, http.StatusBadRequest, msgCounterEmojiRequired)
	case errors.Is(err, service.ErrCounterTimeNotFound):
		respondError(c, http.StatusBadRequest, msgCounterTimeMissing)
	case errors.Is(err, service.ErrCounterAtZero):
		respondError(c, http.StatusBadRequest, msgCounterAtZero)
	default:
		log.Printf("[counter] %v", err)
		respondError(c, http.StatusInternalServerError, msgCounterFailed)
	}
}

func counterToPayload(counter db.Counter) gin.H {
	return gin.H{
		"id":              counter.ID,
		"emoji":           counter.Emoji,
		"name":            optionalString(counter.Name),
		"threshold":       optionalInt(counter.Threshold),
		"exceedingIsGood": counter.ExceedingIsGood,
	}
}

func counterTimeToPayload(record db.CounterTime) gin.H {
	return gin.H{
		"id":         record.ID,
		"counterId":  record.CounterID,
		"day":        record.Day.Format(dateFormat),
		"timesCount": record.TimesCount,
		"counter":    counterToPayload(record.Counter),
		"status":     service.EvaluateThreshold(record.Counter, record.TimesCount),
	}
}
