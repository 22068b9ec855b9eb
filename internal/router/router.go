package router

import (
	"time"

	"github.com/daytrack/internal/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "daytrack_session"

// Options 路由层的可配置项
type Options struct {
	SessionSecret  string
	AllowedOrigins []string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	secret := opts.SessionSecret
	if secret == "" {
		secret = "daytrack-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions(sessionName, store))

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Timezone"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(api.LocaleMiddleware())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/session", api.Login)
		apiGroup.DELETE("/session", api.Logout)

		auth := apiGroup.Group("")
		auth.Use(api.OwnerRequired())
		{
			auth.GET("/work-fragments", api.GetWorkFragments)
			auth.POST("/work-fragments", api.PostWorkFragmentAction)
			auth.GET("/work-fragments/stats", api.GetWorkDaySummary)

			auth.GET("/work-day-stats", api.GetWorkDayStats)
			auth.POST("/work-day-stats", api.RecomputeWorkDayStats)

			auth.GET("/counters", api.GetCounters)
			auth.POST("/counters", api.CreateCounter)
			auth.PUT("/counters", api.UpdateCounter)
			auth.PUT("/counters/:id", api.UpdateCounter)

			auth.GET("/counter-times", api.GetCounterTimes)
			auth.POST("/counter-times", api.IncrementCounter)
			auth.POST("/counter-times/decrement", api.DecrementCounter)

			auth.GET("/daily-entry", api.ListDailyEntries)
			auth.POST("/daily-entry", api.SaveDailyEntry)
			auth.GET("/daily-entry/staged/:date", api.GetStagedEntry)
			auth.GET("/daily-entry/:date", api.GetDailyEntry)

			auth.GET("/moods", api.GetMoods)
			auth.POST("/moods", api.CreateMood)
		}
	}

	return r
}
