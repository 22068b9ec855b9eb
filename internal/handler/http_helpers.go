package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daytrack/internal/db"
	"github.com/daytrack/internal/locale"
	"github.com/gin-gonic/gin"
)

const (
	dateFormat         = "2006-01-02"
	timeLayout         = time.RFC3339
	timezoneHeader     = "X-Timezone"
	languageContextKey = "__request_language"
)

var errInvalidDate = errors.New("invalid date")

func respondError(c *gin.Context, status int, msg apiMessage) {
	c.JSON(status, gin.H{"error": msg.text.In(requestLanguage(c)), "code": msg.code})
}

func respondMessage(c *gin.Context, status int, msg apiMessage, extra gin.H) {
	payload := gin.H{"message": msg.text.In(requestLanguage(c))}
	for key, value := range extra {
		payload[key] = value
	}
	c.JSON(status, payload)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidRequest)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// requestLanguage 优先 ?lang=，其次 Accept-Language
func requestLanguage(c *gin.Context) string {
	if cached, exists := c.Get(languageContextKey); exists {
		if language, ok := cached.(string); ok {
			return language
		}
	}
	language := locale.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
	c.Set(languageContextKey, language)
	return language
}

// requestLocation 读取请求方时区（X-Timezone 或 ?tz=），无法识别时使用默认时区
func (a *API) requestLocation(c *gin.Context) *time.Location {
	name := strings.TrimSpace(c.GetHeader(timezoneHeader))
	if name == "" {
		name = strings.TrimSpace(c.Query("tz"))
	}
	if name == "" {
		return a.timezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return a.timezone
	}
	return loc
}

// requestDay 返回 ?date= 指定的日期，缺省为请求方所在时区的今天
func (a *API) requestDay(c *gin.Context) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return a.today(c), nil
	}
	day, err := time.Parse(dateFormat, raw)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return db.NormalizeDay(day), nil
}

func (a *API) today(c *gin.Context) time.Time {
	return db.NormalizeDay(a.now().In(a.requestLocation(c)))
}

func formatOptionalTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(timeLayout)
}

func optionalString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func optionalInt(value *int) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
