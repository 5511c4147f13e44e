package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xSteins/PencatatanKalori-sub000/internal/service"
)

func GetProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := app.Profiles().Get(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to load profile")
			return
		}
		HandleSuccess(c, app.Logger(), p, nil)
	}
}

func PostProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateProfileRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Profile validation failed")
			return
		}
		p, err := app.Profiles().Onboard(c.Request.Context(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to save profile")
			return
		}
		HandleCreated(c, app.Logger(), p)
	}
}

func PatchProfile(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ProfileUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateProfileUpdateRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Profile validation failed")
			return
		}
		p, err := app.Profiles().Update(c.Request.Context(), req.Update())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		HandleSuccess(c, app.Logger(), p, nil)
	}
}

func PutGranularity(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.GranularityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := service.ValidateGranularityRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Offset must be between 0 and 500")
			return
		}
		p, err := app.Profiles().SetGranularity(c.Request.Context(), *req.Offset)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to update offset")
			return
		}
		HandleSuccess(c, app.Logger(), p, nil)
	}
}
