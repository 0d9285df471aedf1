package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veloguard/tracker-backend/internal/middleware"
	"github.com/veloguard/tracker-backend/telemetry"
)

type positionResponse struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ReportedAt time.Time `json:"reportedAt"`
}

func toPositionResponse(r telemetry.Report) positionResponse {
	return positionResponse{
		Latitude:   r.Lat,
		Longitude:  r.Lng,
		ReportedAt: r.ReportedAt,
	}
}

func (a *API) currentPositionHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}
	b, ok := a.resolveOwnedBicycle(c, r)
	if !ok {
		return
	}

	rep, err := a.tr.Current(c, b.ID)
	if err != nil {
		// A bicycle that exists but has never reported is not an error
		// to the caller.
		if errors.Is(err, telemetry.ErrNoData) {
			c.JSON(http.StatusOK, nil)
			return
		}
		logger.ErrorContext(c, "failed to get current position", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toPositionResponse(rep))
}

func (a *API) positionHistoryHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}
	b, ok := a.resolveOwnedBicycle(c, r)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid limit"})
		return
	}

	reports, err := a.tr.History(c, b.ID, limit)
	if err != nil {
		logger.ErrorContext(c, "failed to get position history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]positionResponse, 0, len(reports))
	for _, rep := range reports {
		responses = append(responses, toPositionResponse(rep))
	}
	c.JSON(http.StatusOK, responses)
}
