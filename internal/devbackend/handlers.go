package devbackend

import (
	"errors"
	"net/http"
	"strings"

	"checkpoint/internal/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler { return &Handler{Store: store} }

type ScanRequest struct {
	UID string `json:"uid" binding:"required"`
}

func (h *Handler) ListAttendance(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Attendance())
}

func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Users())
}

func (h *Handler) Pending(c *gin.Context) {
	c.JSON(http.StatusOK, models.PendingCard{UID: h.Store.Pending()})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req models.NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	u, err := h.Store.AddUser(req.Name, req.UID)
	switch {
	case errors.Is(err, ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	uid := strings.TrimSpace(c.Param("uid"))
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid required"})
		return
	}

	if err := h.Store.DeleteUser(uid); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.Store.Scan(req.UID))
}
