package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veloguard/tracker-backend/bicycle"
	"github.com/veloguard/tracker-backend/internal/middleware"
	"github.com/veloguard/tracker-backend/rider"
)

type bicycleResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	HardwareCode string     `json:"hardwareCode"`
	OwnerID      *uuid.UUID `json:"ownerId,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toBicycleResponse(b bicycle.Bicycle) bicycleResponse {
	return bicycleResponse{
		ID:           b.ID,
		Name:         b.Name,
		HardwareCode: b.HardwareCode,
		OwnerID:      b.OwnerID,
		Active:       b.Active,
		CreatedAt:    b.CreatedAt,
	}
}

// resolveOwnedBicycle parses the :id parameter and loads the bicycle,
// requiring it to be linked to the calling rider. Every bicycle-scoped
// rider route goes through here before dispatching, so telemetry and
// safety handlers can assume the bicycle exists. Writes the error
// response itself when it fails.
func (a *API) resolveOwnedBicycle(c *gin.Context, r *rider.Rider) (bicycle.Bicycle, bool) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid bicycle id"})
		return bicycle.Bicycle{}, false
	}

	b, err := a.br.Get(c, id)
	if err != nil {
		if errors.Is(err, bicycle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "BICYCLE_NOT_FOUND", "message": "Bicycle not found"})
			return bicycle.Bicycle{}, false
		}
		logger.ErrorContext(c, "failed to get bicycle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return bicycle.Bicycle{}, false
	}

	// A bicycle another rider owns is reported as missing rather than
	// forbidden, so the route does not leak which codes exist.
	if b.OwnerID == nil || *b.OwnerID != r.ID {
		c.JSON(http.StatusNotFound, gin.H{"code": "BICYCLE_NOT_FOUND", "message": "Bicycle not found"})
		return bicycle.Bicycle{}, false
	}
	return b, true
}

func (a *API) listBicyclesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}

	bicycles, err := a.br.ListByOwner(c, r.ID)
	if err != nil {
		logger.ErrorContext(c, "failed to list bicycles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]bicycleResponse, 0, len(bicycles))
	for _, b := range bicycles {
		responses = append(responses, toBicycleResponse(b))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) getBicycleHandler(c *gin.Context) {
	r, ok := a.currentRider(c)
	if !ok {
		return
	}
	b, ok := a.resolveOwnedBicycle(c, r)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toBicycleResponse(b))
}

type linkBicycleRequest struct {
	HardwareCode string `json:"hardwareCode" binding:"required"`
}

func (a *API) linkBicycleHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}

	var req linkBicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	b, err := a.br.LinkByCode(c, req.HardwareCode, r.ID)
	if err != nil {
		if errors.Is(err, bicycle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "BICYCLE_NOT_FOUND", "message": "No bicycle with that hardware code"})
			return
		}
		if errors.Is(err, bicycle.ErrAlreadyLinked) {
			c.JSON(http.StatusConflict, gin.H{"code": "ALREADY_LINKED", "message": "Bicycle already linked to another rider"})
			return
		}
		logger.ErrorContext(c, "failed to link bicycle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toBicycleResponse(b))
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (a *API) setActiveHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}
	b, ok := a.resolveOwnedBicycle(c, r)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	updated, err := a.br.SetActive(c, b.ID, *req.Active)
	if err != nil {
		if errors.Is(err, bicycle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "BICYCLE_NOT_FOUND", "message": "Bicycle not found"})
			return
		}
		logger.ErrorContext(c, "failed to set active flag", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toBicycleResponse(updated))
}
