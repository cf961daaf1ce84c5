package safety

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homebound/internal/pkg/apperror"
	"homebound/internal/pkg/response"
	"homebound/internal/pkg/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/safety/reports", h.ListReports)
	rg.POST("/safety/reports", h.CreateReport)
	rg.GET("/safety/reports/:id", h.GetReport)
	rg.PATCH("/safety/reports/:id", h.UpdateReport)
	rg.DELETE("/safety/reports/:id", h.DeleteReport)
}

func (h *Handler) CreateReport(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateReportRequest
	if appErr := validate.Body(c, &req); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	report, err := h.service.CreateReport(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"report": report})
}

func (h *Handler) GetReport(c *gin.Context) {
	userID := c.GetString("user_id")
	reportID := c.Param("id")
	if appErr := validate.UUIDParam(reportID, "id"); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	report, err := h.service.GetReport(c.Request.Context(), reportID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}

func (h *Handler) ListReports(c *gin.Context) {
	userID := c.GetString("user_id")

	q := validate.QueryMap(c)
	page, appErr := validate.QueryInt(q, "page", 1)
	if appErr != nil {
		response.Fail(c, appErr)
		return
	}
	limit, appErr := validate.QueryInt(q, "limit", 20)
	if appErr != nil {
		response.Fail(c, appErr)
		return
	}

	reports, total, err := h.service.GetUserReports(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"reports": reports,
		"total":   total,
	})
}

func (h *Handler) UpdateReport(c *gin.Context) {
	userID := c.GetString("user_id")
	reportID := c.Param("id")
	if appErr := validate.UUIDParam(reportID, "id"); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	var req UpdateReportRequest
	if appErr := validate.Body(c, &req); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	report, err := h.service.UpdateReport(c.Request.Context(), reportID, userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}

func (h *Handler) DeleteReport(c *gin.Context) {
	userID := c.GetString("user_id")
	reportID := c.Param("id")
	if appErr := validate.UUIDParam(reportID, "id"); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	if err := h.service.DeleteReport(c.Request.Context(), reportID, userID); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Fail(c, apperror.New(apperror.CodeNotFound, "Safety report not found"))
		return
	}
	response.Fail(c, apperror.FromDB(err))
}
