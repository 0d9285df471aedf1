package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veloguard/tracker-backend/internal/middleware"
	"github.com/veloguard/tracker-backend/safety"
)

type safetyStateResponse struct {
	Active    bool     `json:"active"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func toSafetyStateResponse(s safety.State) safetyStateResponse {
	return safetyStateResponse{
		Active:    s.Active,
		Latitude:  s.Lat,
		Longitude: s.Lng,
	}
}

func (a *API) safetyStatusHandler(f safety.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLogger(c)

		r, ok := a.currentRider(c)
		if !ok {
			return
		}
		b, ok := a.resolveOwnedBicycle(c, r)
		if !ok {
			return
		}

		s, err := a.sr.Status(c, f, b.ID)
		if err != nil {
			logger.ErrorContext(c, "failed to get safety state", "feature", f.String(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, toSafetyStateResponse(s))
	}
}

// setSafetyStateRequest carries the uniform engage/disengage payload.
// The flag is a pointer so "active": "yes" or a missing field fails
// binding instead of silently disengaging.
type setSafetyStateRequest struct {
	Active    *bool    `json:"active" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
}

func (a *API) safetySetHandler(f safety.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLogger(c)

		r, ok := a.currentRider(c)
		if !ok {
			return
		}
		b, ok := a.resolveOwnedBicycle(c, r)
		if !ok {
			return
		}

		var req setSafetyStateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
			return
		}

		var s safety.State
		var err error
		if *req.Active {
			if req.Latitude == nil || req.Longitude == nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Engaging requires latitude and longitude"})
				return
			}
			s, err = a.sr.Engage(c, f, b.ID, *req.Latitude, *req.Longitude)
		} else {
			s, err = a.sr.Disengage(c, f, b.ID)
		}
		if err != nil {
			logger.ErrorContext(c, "failed to set safety state", "feature", f.String(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, toSafetyStateResponse(s))
	}
}

type impactResponse struct {
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Severity   *float64  `json:"severity,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
}

func toImpactResponse(i safety.Impact) impactResponse {
	return impactResponse{
		ID:         i.ID,
		OccurredAt: i.OccurredAt,
		Severity:   i.Severity,
		Latitude:   i.Lat,
		Longitude:  i.Lng,
	}
}

func (a *API) listImpactsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}
	b, ok := a.resolveOwnedBicycle(c, r)
	if !ok {
		return
	}

	impacts, err := a.sr.ListImpacts(c, b.ID)
	if err != nil {
		logger.ErrorContext(c, "failed to list impacts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]impactResponse, 0, len(impacts))
	for _, i := range impacts {
		responses = append(responses, toImpactResponse(i))
	}
	c.JSON(http.StatusOK, responses)
}
