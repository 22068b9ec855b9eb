package handler

import (
	"strings"

	"github.com/daytrack/internal/locale"
	"github.com/gin-gonic/gin"
)

// LocaleMiddleware resolves request language and sets headers for downstream caching.
func (a *API) LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		language := requestLanguage(c)
		if language == locale.LanguageEnglish {
			c.Header("Content-Language", "en")
		} else {
			c.Header("Content-Language", "zh-CN")
		}
		appendVaryHeader(c, "Accept-Language", timezoneHeader)
		c.Next()
	}
}

func appendVaryHeader(c *gin.Context, values ...string) {
	existing := c.Writer.Header().Values("Vary")
	seen := make(map[string]struct{})
	merged := make([]string, 0, len(existing)+len(values))
	for _, header := range existing {
		for _, part := range strings.Split(header, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, part)
		}
	}
	for _, value := range values {
		key := strings.ToLower(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, value)
	}
	c.Header("Vary", strings.Join(merged, ", "))
}
