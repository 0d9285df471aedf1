package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veloguard/tracker-backend/bicycle"
	"github.com/veloguard/tracker-backend/internal/middleware"
)

func (a *API) adminListBicyclesHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	bicycles, err := a.br.List(c)
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

type registerBicycleRequest struct {
	Name         string `json:"name" binding:"required"`
	HardwareCode string `json:"hardwareCode" binding:"required"`
	// OwnerID pre-links the bicycle to a rider; usually left empty so
	// the rider links it themselves by code.
	OwnerID *uuid.UUID `json:"ownerId"`
}

func (a *API) adminRegisterBicycleHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	var req registerBicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	b, err := a.br.Register(c, req.Name, req.HardwareCode, req.OwnerID)
	if err != nil {
		if errors.Is(err, bicycle.ErrDuplicateCode) {
			c.JSON(http.StatusConflict, gin.H{"code": "DUPLICATE_CODE", "message": "Hardware code already registered"})
			return
		}
		logger.ErrorContext(c, "failed to register bicycle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, toBicycleResponse(b))
}

type reassignBicycleRequest struct {
	Name string `json:"name" binding:"required"`
	// OwnerID is the new owner; null unlinks the bicycle so a rider can
	// claim it again by code.
	OwnerID *uuid.UUID `json:"ownerId"`
}

func (a *API) adminReassignBicycleHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid bicycle id"})
		return
	}

	var req reassignBicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	b, err := a.br.Reassign(c, id, req.Name, req.OwnerID)
	if err != nil {
		if errors.Is(err, bicycle.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "BICYCLE_NOT_FOUND", "message": "Bicycle not found"})
			return
		}
		logger.ErrorContext(c, "failed to reassign bicycle", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toBicycleResponse(b))
}
