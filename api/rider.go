package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veloguard/tracker-backend/internal/middleware"
	"github.com/veloguard/tracker-backend/rider"
)

type riderResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRiderResponse(r rider.Rider) riderResponse {
	return riderResponse{
		ID:        r.ID,
		Email:     r.Email.String,
		Name:      r.Name.String,
		CreatedAt: r.CreatedAt,
	}
}

// currentRider resolves the authenticated subject to a rider row,
// provisioning one on first contact. When provisioning, the profile is
// filled in from the identity provider's userinfo endpoint on a best
// effort basis. Writes the error response itself when it fails.
func (a *API) currentRider(c *gin.Context) (*rider.Rider, bool) {
	logger := middleware.GetLogger(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"})
		return nil, false
	}

	r, err := a.rr.GetByAuthID(c, userID)
	if err == nil {
		return r, true
	}
	if !errors.Is(err, rider.ErrNotFound) {
		logger.ErrorContext(c, "failed to get rider", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}

	var email, name string
	if token, ok := bearerToken(c); ok {
		if info, err := a.idp.GetUserInfo(c, token); err == nil {
			email, name = info.Email, info.Name
		} else {
			logger.WarnContext(c, "failed to fetch user info", "error", err)
		}
	}

	r, err = a.rr.Create(c, userID, email, name)
	if err != nil {
		logger.ErrorContext(c, "failed to provision rider", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return r, true
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(h, "Bearer ")
	return token, found && token != ""
}

func (a *API) getProfileHandler(c *gin.Context) {
	r, ok := a.currentRider(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toRiderResponse(*r))
}

type updateProfileRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (a *API) updateProfileHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	if err := a.rr.UpdateProfile(c, r.AuthID, req.Email, req.Name); err != nil {
		logger.ErrorContext(c, "failed to update profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	updated, err := a.rr.GetByAuthID(c, r.AuthID)
	if err != nil {
		logger.ErrorContext(c, "failed to reload profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toRiderResponse(*updated))
}
