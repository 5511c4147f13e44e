package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xSteins/PencatatanKalori-sub000/internal/service"
)

func PostDemoMode(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.DemoModeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateDemoModeRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "enabled is required")
			return
		}
		app.Debug().SetDemoMode(*req.Enabled)
		HandleSuccess(c, app.Logger(), gin.H{"demo_mode": app.Debug().DemoMode()}, nil)
	}
}

func GetDebugState(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), gin.H{
			"demo_mode":  app.Debug().DemoMode(),
			"last_error": app.Debug().LastError(),
		}, nil)
	}
}

func GetLastError(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), app.Debug().LastError(), nil)
	}
}

func PostClearAll(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Debug().ClearAll(c.Request.Context()); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to clear data")
			return
		}
		HandleSuccess(c, app.Logger(), nil, map[string]any{"cleared": true})
	}
}
