package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/service"
	"github.com/daytrack/internal/staging"
	"github.com/gin-gonic/gin"
)

type dailyEntryRequest struct {
	Date          string             `json:"date"`
	MoodScore     int                `json:"moodScore"`
	Activities    []staging.Activity `json:"activities"`
	CustomMetrics []staging.Metric   `json:"customMetrics"`
	Notes         string             `json:"notes"`
}

// SaveDailyEntry 先暂存 JSON，再写入数据库；数据库失败时仍返回成功并附带 warning
func (a *API) SaveDailyEntry(c *gin.Context) {
	var req dailyEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := a.entries.Save(service.DailyEntryInput{
		Date:          req.Date,
		MoodScore:     req.MoodScore,
		Activities:    req.Activities,
		CustomMetrics: req.CustomMetrics,
		Notes:         req.Notes,
	})
	if err != nil {
		handleDailyEntryError(c, err)
		return
	}

	if result.Warning != "" {
		respondMessage(c, http.StatusOK, msgEntryStagedOnly, gin.H{
			"success":  true,
			"jsonPath": result.JSONPath,
			"warning":  fmt.Sprintf("%s: %s", msgEntryDBWarning.text.In(requestLanguage(c)), result.Warning),
		})
		return
	}

	respondMessage(c, http.StatusOK, msgEntrySaved, gin.H{
		"success":  true,
		"jsonPath": result.JSONPath,
		"entryId":  result.EntryID,
	})
}

// ListDailyEntries 返回全部日志，日期倒序
func (a *API) ListDailyEntries(c *gin.Context) {
	entries, err := a.entries.List()
	if err != nil {
		log.Printf("[daily-entry] list: %v", err)
		respondError(c, http.StatusInternalServerError, msgLoadEntriesFailed)
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dailyEntryToPayload(entry))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": items})
}

// GetDailyEntry 返回某天的日志详情
func (a *API) GetDailyEntry(c *gin.Context) {
	entry, err := a.entries.Get(c.Param("date"))
	if err != nil {
		handleDailyEntryError(c, err)
		return
	}

	payload := dailyEntryToPayload(*entry)

	activities := make([]gin.H, 0, len(entry.Activities))
	for _, link := range entry.Activities {
		activities = append(activities, gin.H{
			"id":        link.ActivityID,
			"name":      link.Activity.Name,
			"category":  link.Activity.Category,
			"duration":  optionalInt(link.DurationMinutes),
			"intensity": optionalInt(link.Intensity),
		})
	}
	payload["activities"] = activities

	metrics := make([]gin.H, 0, len(entry.CustomMetrics))
	for _, metric := range entry.CustomMetrics {
		metrics = append(metrics, gin.H{
			"name":  metric.Name,
			"value": metric.Value,
			"unit":  metric.Unit,
		})
	}
	payload["customMetrics"] = metrics

	c.JSON(http.StatusOK, gin.H{"success": true, "entry": payload})
}

// GetStagedEntry 返回某天暂存的原始 JSON
func (a *API) GetStagedEntry(c *gin.Context) {
	snapshot, err := a.entries.Staged(c.Param("date"))
	if err != nil {
		handleDailyEntryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "snapshot": snapshot})
}

func handleDailyEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryInvalid):
		respondError(c, http.StatusBadRequest, msgEntryInvalid)
	case errors.Is(err, service.ErrEntryNotFound):
		respondError(c, http.StatusNotFound, msgEntryNotFound)
	case errors.Is(err, staging.ErrSnapshotNotFound):
		respondError(c, http.StatusNotFound, msgSnapshotNotFound)
	default:
		log.Printf("[daily-entry] %v", err)
		respondError(c, http.StatusInternalServerError, msgEntryFailed)
	}
}

func dailyEntryToPayload(entry db.DailyEntry) gin.H {
	notesHTML, err := renderNotes(entry.Notes)
	if err != nil {
		log.Printf("[daily-entry] render notes for %s: %v", entry.EntryDate, err)
		notesHTML = ""
	}

	return gin.H{
		"id":        entry.ID,
		"date":      entry.EntryDate,
		"moodScore": entry.MoodScore,
		"notes":     entry.Notes,
		"notesHtml": notesHTML,
		"createdAt": entry.CreatedAt.Format(timeLayout),
	}
}
