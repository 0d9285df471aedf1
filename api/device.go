package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veloguard/tracker-backend/bicycle"
	"github.com/veloguard/tracker-backend/internal/middleware"
)

// resolveDeviceBicycle looks up the bicycle behind a device route's
// hardware code and requires it to be activated; a deactivated tracker
// should not be feeding the log. Writes the error response itself when
// it fails.
func (a *API) resolveDeviceBicycle(c *gin.Context) (bicycle.Bicycle, bool) {
	logger := middleware.GetLogger(c)

	b, err := a.br.GetByCode(c, c.Param("code"))
	if err != nil {
		if errors.Is(err, bicycle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "BICYCLE_NOT_FOUND", "message": "Unknown hardware code"})
			return bicycle.Bicycle{}, false
		}
		logger.ErrorContext(c, "failed to get bicycle by code", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return bicycle.Bicycle{}, false
	}
	if !b.Active {
		c.JSON(http.StatusConflict, gin.H{"code": "BICYCLE_INACTIVE", "message": "Bicycle is not activated"})
		return bicycle.Bicycle{}, false
	}
	return b, true
}

type reportPositionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	// ReportedAt is the device's own timestamp for the fix; omitted when
	// the device clock is unreliable and the store should stamp it.
	ReportedAt string `json:"reportedAt"`
}

func (a *API) deviceReportPositionHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	b, ok := a.resolveDeviceBicycle(c)
	if !ok {
		return
	}

	var req reportPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	var at *time.Time
	if req.ReportedAt != "" {
		t, err := time.Parse(time.RFC3339, req.ReportedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid reportedAt format"})
			return
		}
		at = &t
	}

	rep, err := a.tr.Record(c, b.ID, *req.Latitude, *req.Longitude, at)
	if err != nil {
		logger.ErrorContext(c, "failed to record position", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, toPositionResponse(rep))
}

type reportImpactRequest struct {
	OccurredAt string   `json:"occurredAt"`
	Severity   *float64 `json:"severity" binding:"omitempty,gte=0"`
	Latitude   *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude  *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

func (a *API) deviceReportImpactHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	b, ok := a.resolveDeviceBicycle(c)
	if !ok {
		return
	}

	var req reportImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	var at *time.Time
	if req.OccurredAt != "" {
		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid occurredAt format"})
			return
		}
		at = &t
	}

	impact, err := a.sr.RecordImpact(c, b.ID, at, req.Severity, req.Latitude, req.Longitude)
	if err != nil {
		logger.ErrorContext(c, "failed to record impact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, toImpactResponse(impact))
}
