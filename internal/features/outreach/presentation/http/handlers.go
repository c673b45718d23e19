package http

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"

	"cold-email-generator/internal/features/outreach/application"
	"cold-email-generator/internal/features/outreach/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed web/index.html
var indexHTML []byte

// OutreachHandler holds the outreach service.
type OutreachHandler struct {
	outreachService application.OutreachService
}

// NewOutreachHandler creates a new OutreachHandler.
func NewOutreachHandler(outreachService application.OutreachService) *OutreachHandler {
	return &OutreachHandler{
		outreachService: outreachService,
	}
}

// RegisterRoutes mounts the web form and the JSON API on r.
func (h *OutreachHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.IndexHandler)

	api := r.Group("/api")
	{
		api.POST("/validate-url", h.ValidateURLHandler)
		api.POST("/generate", h.GenerateHandler)
		api.GET("/result/:id", h.GetResultHandler)
	}
}

// IndexHandler serves the web form.
func (h *OutreachHandler) IndexHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// ValidateURLHandler classifies a URL so the form can give feedback before generating.
func (h *OutreachHandler) ValidateURLHandler(c *gin.Context) {
	var req domain.ValidateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "Invalid request: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.outreachService.CheckURL(req.URL))
}

// GenerateHandler runs the whole pipeline for one URL and product description.
func (h *OutreachHandler) GenerateHandler(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Generation panicked")
			c.JSON(http.StatusInternalServerError,
				domain.FailureResponse(domain.StageUnknown, fmt.Sprintf("An error occurred: %v", r), ""))
		}
	}()

	var req domain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			domain.FailureResponse(domain.StageValidation, "Invalid request: "+err.Error(), ""))
		return
	}

	resp, err := h.outreachService.Generate(c.Request.Context(), req)
	if err != nil {
		var pipelineErr *domain.Error
		if errors.As(err, &pipelineErr) {
			c.JSON(pipelineErr.HTTPStatus(),
				domain.FailureResponse(pipelineErr.Stage(), pipelineErr.Message, pipelineErr.Details))
			return
		}
		log.Error().Err(err).Msg("Unexpected generation failure")
		c.JSON(http.StatusInternalServerError,
			domain.FailureResponse(domain.StageUnknown, "An error occurred: "+err.Error(), ""))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetResultHandler returns the persisted result of an earlier generation.
func (h *OutreachHandler) GetResultHandler(c *gin.Context) {
	doc, err := h.outreachService.Result(c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrResultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No result found. Please generate an email first."})
			return
		}
		log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to read result")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read result: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}
