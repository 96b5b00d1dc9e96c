package catalog

import (
	"net/http"
	"strconv"

	"tourbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tours", h.ListTours)
	rg.GET("/tours/:id", h.GetTour)
}

func (h *Handler) ListTours(c *gin.Context) {
	tours, err := h.service.ListTours(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load tours")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tours": tours})
}

func (h *Handler) GetTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tour id")
		return
	}

	t, err := h.service.GetTour(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tour not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load tour")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tour": t})
}
