package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
	apperrors "github.com/yanqian/bloom-backend/pkg/errors"
)

const serviceName = "bloom-backend"

// Handler wires the HTTP transport to domain services.
type Handler struct {
	bloomSvc   bloom.Service
	chatbotSvc chatbot.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(bloomSvc bloom.Service, chatbotSvc chatbot.Service, logger *slog.Logger) *Handler {
	return &Handler{
		bloomSvc:   bloomSvc,
		chatbotSvc: chatbotSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

type mapQuery struct {
	Lat  *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lon  *float64 `form:"lon" binding:"required,gte=-180,lte=180"`
	Year *int     `form:"year" binding:"required"`
}

type forecastQuery struct {
	Months int `form:"months,default=6" binding:"gte=1,lte=24"`
}

type askBody struct {
	Question *string `json:"question" binding:"required"`
}

// Root is the liveness probe.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
}

// Health reports liveness plus forecast model readiness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName, "model_loaded": h.bloomSvc.ModelLoaded()})
}

// BloomMap returns the vegetation index, bloom status and imagery for a point.
func (h *Handler) BloomMap(c *gin.Context) {
	var q mapQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, validationError(err))
		return
	}

	resp, err := h.bloomSvc.QueryMap(c.Request.Context(), bloom.MapRequest{
		Point: bloom.GeoPoint{Latitude: *q.Lat, Longitude: *q.Lon},
		Year:  *q.Year,
	})
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BloomForecast returns the monthly vegetation index forecast.
func (h *Handler) BloomForecast(c *gin.Context) {
	var q forecastQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, validationError(err))
		return
	}

	resp, err := h.bloomSvc.QueryForecast(c.Request.Context(), q.Months)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ask answers a bloom season question.
func (h *Handler) Ask(c *gin.Context) {
	var body askBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, validationError(err))
		return
	}

	resp, err := h.chatbotSvc.Ask(c.Request.Context(), chatbot.Request{Question: *body.Question})
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func domainError(err error) *HTTPError {
	switch code := apperrors.CodeOf(err); code {
	case apperrors.CodeInvalidInput:
		return NewHTTPError(http.StatusUnprocessableEntity, "validation_error", errMessage(err), err)
	case apperrors.CodeArtifactNotFound, apperrors.CodeForecast:
		return NewHTTPError(http.StatusInternalServerError, code, errMessage(err), err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal_error", "something went wrong", err)
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
