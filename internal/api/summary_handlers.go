package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/service"
	"github.com/xSteins/PencatatanKalori-sub000/internal/tdee"
)

func GetTodaySummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := app.Summaries().Today(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to build summary")
			return
		}
		HandleSuccess(c, app.Logger(), sum, nil)
	}
}

func GetSummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := dayQuery(c, "date", app.Location(), app.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		sum, err := app.Summaries().ForDate(c.Request.Context(), day)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to build summary")
			return
		}
		HandleSuccess(c, app.Logger(), sum, nil)
	}
}

func GetSummaryRange(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		first, last, err := spanQuery(c, app)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "start and end must both be YYYY-MM-DD")
			return
		}
		sums, err := app.Summaries().ForRange(c.Request.Context(), first, last)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to build summaries")
			return
		}
		HandleSuccess(c, app.Logger(), sums, map[string]any{"days": len(sums)})
	}
}

// GetTDEE is a stateless calculator; it reads nothing from storage.
func GetTDEE(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.TDEERequest
		if err := c.ShouldBindQuery(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid query")
			return
		}
		if err := service.ValidateTDEERequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed")
			return
		}
		level := internal.ActivityLevel(req.ActivityLevel)
		b := tdee.Explain(req.WeightKg, req.HeightCm, req.Age, internal.Sex(req.Sex), level, req.Offset)
		HandleSuccess(c, app.Logger(), b, map[string]any{"activity_level": level.Label()})
	}
}
