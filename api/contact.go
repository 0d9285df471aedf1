package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veloguard/tracker-backend/contact"
	"github.com/veloguard/tracker-backend/internal/middleware"
)

type contactResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Relation  string    `json:"relation,omitempty"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

func toContactResponse(ct contact.Contact) contactResponse {
	return contactResponse{
		ID:        ct.ID,
		Name:      ct.Name,
		Email:     ct.Email,
		Relation:  ct.Relation,
		Phone:     ct.Phone,
		CreatedAt: ct.CreatedAt,
	}
}

type contactRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Relation string `json:"relation"`
	Phone    string `json:"phone" binding:"required"`
}

func (a *API) listContactsHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}

	contacts, err := a.cr.ListByRider(c, r.ID)
	if err != nil {
		logger.ErrorContext(c, "failed to list contacts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]contactResponse, 0, len(contacts))
	for _, ct := range contacts {
		responses = append(responses, toContactResponse(ct))
	}
	c.JSON(http.StatusOK, responses)
}

func (a *API) addContactHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	ct, err := a.cr.Add(c, r.ID, req.Name, req.Email, req.Relation, req.Phone)
	if err != nil {
		logger.ErrorContext(c, "failed to add contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, toContactResponse(ct))
}

func (a *API) updateContactHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid contact id"})
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	ct, err := a.cr.Update(c, id, r.ID, req.Name, req.Email, req.Relation, req.Phone)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "CONTACT_NOT_FOUND", "message": "Contact not found"})
			return
		}
		logger.ErrorContext(c, "failed to update contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, toContactResponse(ct))
}

func (a *API) deleteContactHandler(c *gin.Context) {
	logger := middleware.GetLogger(c)

	r, ok := a.currentRider(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("contactId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_REQUEST", "message": "Invalid contact id"})
		return
	}

	if err := a.cr.Delete(c, id, r.ID); err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "CONTACT_NOT_FOUND", "message": "Contact not found"})
			return
		}
		logger.ErrorContext(c, "failed to delete contact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
