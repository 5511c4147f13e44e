package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
	"github.com/xSteins/PencatatanKalori-sub000/internal/calendar"
	"github.com/xSteins/PencatatanKalori-sub000/internal/response"
)

// HandleError writes the error envelope. An *internal.AppError anywhere in
// err's chain overrides status and msg.
func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	var appErr *internal.AppError
	if errors.As(err, &appErr) {
		logger.Errorf("[request_id=%s] %s: %v", requestID, appErr.Message, errors.Unwrap(appErr))
		c.JSON(appErr.Code, response.NewAppError(appErr.Code, appErr.Message))
		return
	}
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp response.APIResponse
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg + ": " + err.Error())
	case http.StatusNotFound:
		resp = response.NotFound(msg + ": " + err.Error())
	case http.StatusConflict:
		resp = response.Conflict(msg + ": " + err.Error())
	case http.StatusInternalServerError:
		resp = response.InternalError(msg + ": " + err.Error())
	default:
		resp = response.NewAppError(status, msg+": "+err.Error())
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, response.Success(data, meta))
}

func HandleCreated(c *gin.Context, logger internal.Logger, data interface{}) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Created", requestID)
	c.JSON(http.StatusCreated, response.Success(data, nil))
}

// dayQuery parses a YYYY-MM-DD query parameter, falling back to now when the
// parameter is absent.
func dayQuery(c *gin.Context, key string, loc *time.Location, now time.Time) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return now, nil
	}
	return calendar.ParseKey(v, loc)
}

// spanQuery reads the inclusive ?start&end day span. Both are required.
func spanQuery(c *gin.Context, app App) (time.Time, time.Time, error) {
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, errMissingSpan
	}
	first, err := calendar.ParseKey(start, app.Location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last, err := calendar.ParseKey(end, app.Location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if last.Before(first) {
		return time.Time{}, time.Time{}, errInvertedSpan
	}
	return first, last, nil
}

var (
	errMissingSpan  = errors.New("start and end are required")
	errInvertedSpan = errors.New("end is before start")
)
