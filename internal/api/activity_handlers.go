package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xSteins/PencatatanKalori-sub000/internal/service"
)

func PostActivity(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LogActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateLogActivityRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}
		in, err := req.Input(app.Location())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid date")
			return
		}
		entry, err := app.Ledger().LogActivity(c.Request.Context(), in)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to save activity")
			return
		}
		HandleCreated(c, app.Logger(), entry)
	}
}

func PutActivity(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UpdateActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateUpdateActivityRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}
		entry := req.Entry(c.Param("id"))
		if err := app.Ledger().UpdateActivity(c.Request.Context(), entry); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to update activity")
			return
		}
		HandleSuccess(c, app.Logger(), entry, nil)
	}
}

func DeleteActivity(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := app.Ledger().DeleteActivity(c.Request.Context(), id); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to delete activity")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": id})
	}
}

// GetActivities lists one day (?date, default today) or an inclusive span
// (?start&end).
func GetActivities(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		loc := app.Location()
		if c.Query("start") != "" || c.Query("end") != "" {
			first, last, err := spanQuery(c, app)
			if err != nil {
				HandleError(c, app.Logger(), err, http.StatusBadRequest, "start and end must both be YYYY-MM-DD")
				return
			}
			entries, err := app.Ledger().ActivitiesForRange(ctx, first, last)
			if err != nil {
				HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch activities")
				return
			}
			HandleSuccess(c, app.Logger(), entries, map[string]any{"count": len(entries)})
			return
		}

		day, err := dayQuery(c, "date", loc, app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		entries, err := app.Ledger().ActivitiesForDate(ctx, day)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to fetch activities")
			return
		}
		HandleSuccess(c, app.Logger(), entries, map[string]any{"count": len(entries)})
	}
}

// StreamTodayActivities pushes today's entries as server-sent events, once on
// connect and again after every change, until the client goes away.
func StreamTodayActivities(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshots := app.Ledger().WatchToday(c.Request.Context())
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
		app.Logger().Infof("[request_id=%s] activity stream opened", c.GetString("request_id"))

		for entries := range snapshots {
			c.SSEvent("activities", entries)
			c.Writer.Flush()
		}
		app.Logger().Infof("[request_id=%s] activity stream closed", c.GetString("request_id"))
	}
}

func DeleteDay(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := app.Ledger().DeleteDay(c.Request.Context(), id); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to delete day")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"deleted": id})
	}
}
