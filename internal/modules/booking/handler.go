package booking

import (
	"errors"
	"net/http"
	"time"

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
	rg.GET("/bookings", h.ListBookings)
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PATCH("/bookings/:id", h.UpdateBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
	rg.PATCH("/bookings/:id/status", h.ChangeStatus)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateBookingRequest
	if appErr := validate.Body(c, &req); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	userID := c.GetString("user_id")
	bookingID := c.Param("id")
	if appErr := validate.UUIDParam(bookingID, "id"); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListBookings(c *gin.Context) {
	userID := c.GetString("user_id")

	filters, appErr := parseListFilters(c)
	if appErr != nil {
		response.Fail(c, appErr)
		return
	}

	page, err := h.service.GetUserBookings(c.Request.Context(), userID, *filters)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

func (h *Handler) UpdateBooking(c *gin.Context) {
	userID := c.GetString("user_id")
	bookingID := c.Param("id")
	if appErr := validate.UUIDParam(bookingID, "id"); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	var req UpdateBookingRequest
	if appErr := validate.Body(c, &req); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), bookingID, userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	userID := c.GetString("user_id")
	bookingID := c.Param("id")
	if appErr := validate.UUIDParam(bookingID, "id"); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	// Reason is optional; an empty body is fine here.
	var req CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if appErr := validate.Body(c, &req); appErr != nil {
			response.Fail(c, appErr)
			return
		}
	}

	b, err := h.service.CancelBooking(c.Request.Context(), bookingID, userID, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	role := c.GetString("role")
	bookingID := c.Param("id")
	if appErr := validate.UUIDParam(bookingID, "id"); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	var req ChangeStatusRequest
	if appErr := validate.Body(c, &req); appErr != nil {
		response.Fail(c, appErr)
		return
	}

	b, err := h.service.ChangeBookingStatus(c.Request.Context(), bookingID, req.Status, role, req.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func parseListFilters(c *gin.Context) (*ListFilters, *apperror.Error) {
	q := validate.QueryMap(c)

	page, appErr := validate.QueryInt(q, "page", 1)
	if appErr != nil {
		return nil, appErr
	}
	limit, appErr := validate.QueryInt(q, "limit", 20)
	if appErr != nil {
		return nil, appErr
	}

	status, appErr := validate.QueryString(q, "status")
	if appErr != nil {
		return nil, appErr
	}
	if status != "" {
		if appErr := validate.Enum(status, []string{"pending", "confirmed", "cancelled", "completed"}, "status"); appErr != nil {
			return nil, appErr
		}
	}

	bookingType, appErr := validate.QueryString(q, "booking_type")
	if appErr != nil {
		return nil, appErr
	}
	if bookingType != "" {
		if appErr := validate.Enum(bookingType, []string{"dining", "accommodation", "flight", "event", "transport"}, "booking_type"); appErr != nil {
			return nil, appErr
		}
	}

	f := ListFilters{
		Page:        page,
		Limit:       limit,
		Status:      status,
		BookingType: bookingType,
	}

	startStr, appErr := validate.QueryString(q, "startDate")
	if appErr != nil {
		return nil, appErr
	}
	endStr, appErr := validate.QueryString(q, "endDate")
	if appErr != nil {
		return nil, appErr
	}
	if startStr != "" && endStr != "" {
		start, end, appErr := validate.DateRange(startStr, endStr)
		if appErr != nil {
			return nil, appErr
		}
		f.StartDate = &start
		f.EndDate = &end
	} else if startStr != "" || endStr != "" {
		t, err := time.Parse("2006-01-02", startStr+endStr)
		if err != nil {
			return nil, apperror.New(apperror.CodeValidation, "date filter is not a valid date")
		}
		if startStr != "" {
			f.StartDate = &t
		} else {
			f.EndDate = &t
		}
	}

	return &f, nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Fail(c, apperror.New(apperror.CodeBookingNotFound, "Booking not found"))
	case errors.Is(err, ErrCannotModify):
		response.Fail(c, apperror.New(apperror.CodeCannotModify, "Cancelled or completed bookings cannot be modified"))
	case errors.Is(err, ErrCannotCancel):
		response.Fail(c, apperror.New(apperror.CodeCannotCancel, "Completed bookings cannot be cancelled"))
	case errors.Is(err, ErrAlreadyCancelled):
		response.Fail(c, apperror.New(apperror.CodeAlreadyCancelled, "Booking is already cancelled"))
	case errors.Is(err, ErrInvalidDateRange):
		response.Fail(c, apperror.New(apperror.CodeInvalidDateRange, "End date must be strictly after start date"))
	case errors.Is(err, ErrForbidden):
		response.Fail(c, apperror.New(apperror.CodeForbidden, "Status override requires an admin role"))
	case errors.Is(err, ErrUpdateFailed):
		response.Fail(c, apperror.New(apperror.CodeUpdateFailed, "Failed to update booking"))
	default:
		response.Fail(c, apperror.FromDB(err))
	}
}
