package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xSteins/PencatatanKalori-sub000/internal/auth"
)

func NewRouter(app App, provider auth.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(app.Logger()))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	g := r.Group("/api", auth.AuthMiddleware(provider))
	g.GET("/profile", GetProfile(app))
	g.POST("/profile", PostProfile(app))
	g.PATCH("/profile", PatchProfile(app))
	g.PUT("/profile/granularity", PutGranularity(app))

	g.POST("/activities", PostActivity(app))
	g.GET("/activities", GetActivities(app))
	g.GET("/activities/today/stream", StreamTodayActivities(app))
	g.PUT("/activities/:id", PutActivity(app))
	g.DELETE("/activities/:id", DeleteActivity(app))
	g.DELETE("/days/:id", DeleteDay(app))

	g.GET("/summary", GetSummary(app))
	g.GET("/summary/today", GetTodaySummary(app))
	g.GET("/summary/range", GetSummaryRange(app))
	g.GET("/tdee", GetTDEE(app))

	g.GET("/debug", GetDebugState(app))
	g.POST("/debug/demo", PostDemoMode(app))
	g.GET("/debug/last-error", GetLastError(app))
	g.POST("/debug/clear", PostClearAll(app))
	return r
}
