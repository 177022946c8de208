package generationhttp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediaforge/server/internal/domain/generation"
	"github.com/mediaforge/server/internal/port/inbound"
)

// Handler handles generation HTTP requests.
type Handler struct {
	domain inbound.GenerationDomain
	now    func() time.Time
}

// NewHandler creates a new generation handler.
func NewHandler(domain inbound.GenerationDomain) *Handler {
	return &Handler{domain: domain, now: time.Now}
}

var _ inbound.GenerationHttpPort = (*Handler)(nil)

// RegisterRoutes registers generation routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	textGroup := r.Group("/text")
	{
		textGroup.GET("/enhance", h.EnhanceText)
		textGroup.POST("/enhance", h.EnhanceText)
	}

	imageGroup := r.Group("/images")
	{
		imageGroup.POST("", h.GenerateImage)
		imageGroup.GET("/models", h.ListImageModels)
	}

	r.POST("/videos", h.GenerateVideo)
}

// RegisterHealthRoutes registers the upstream health route.
func (h *Handler) RegisterHealthRoutes(r gin.IRoutes) {
	r.GET("/health/upstreams", h.UpstreamHealth)
}

// EnhanceText handles text enhancement requests.
//
//	@Summary		Enhance a prompt
//	@Description	Rewrites a prompt through the text upstream. Accepts the prompt as a query parameter, form field or JSON body.
//	@Tags			Generation
//	@Accept			json
//	@Produce		json
//	@Param			prompt	query		string						false	"Prompt (GET)"
//	@Param			request	body		inbound.TextEnhanceInput	false	"Prompt (POST)"
//	@Success		200		{object}	inbound.TextEnhanceOutput
//	@Failure		400		{object}	apperrors.ErrorResponse
//	@Failure		502		{object}	apperrors.ErrorResponse
//	@Failure		503		{object}	apperrors.ErrorResponse
//	@Router			/text/enhance [get]
//	@Router			/text/enhance [post]
func (h *Handler) EnhanceText(c *gin.Context) {
	var input inbound.TextEnhanceInput
	if !bind(c, &input) {
		return
	}

	res := h.domain.EnhanceText(c.Request.Context(), input.Prompt)
	if !res.IsSuccess() {
		respondFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, inbound.TextEnhanceOutput{
		Success:  true,
		Text:     res.Payload(),
		Filename: generation.SuggestedFilename(res.Capability(), h.now()),
	})
}

// GenerateImage handles image generation requests.
//
//	@Summary		Generate an image
//	@Description	Builds a generated-image URL for the prompt. When verification is enabled the URL is fetched before it is returned.
//	@Tags			Generation
//	@Accept			json
//	@Produce		json
//	@Param			request	body		inbound.ImageGenerationInput	true	"Image request"
//	@Success		200		{object}	inbound.ImageGenerationOutput
//	@Failure		400		{object}	apperrors.ErrorResponse
//	@Failure		502		{object}	apperrors.ErrorResponse
//	@Failure		503		{object}	apperrors.ErrorResponse
//	@Router			/images [post]
func (h *Handler) GenerateImage(c *gin.Context) {
	var input inbound.ImageGenerationInput
	if !bind(c, &input) {
		return
	}

	res := h.domain.GenerateImage(c.Request.Context(), input.Prompt, generation.ImageOptions{
		Width:  input.Width,
		Height: input.Height,
		Model:  input.Model,
	})
	if !res.IsSuccess() {
		respondFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, inbound.ImageGenerationOutput{
		Success:  true,
		URL:      res.Payload(),
		Filename: generation.SuggestedFilename(res.Capability(), h.now()),
	})
}

// GenerateVideo handles video generation requests.
//
//	@Summary		Generate a video
//	@Description	Submits a text-to-video or image-to-video job and waits for the video URL.
//	@Tags			Generation
//	@Accept			json
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		inbound.VideoGenerationInput	true	"Video request"
//	@Success		200		{object}	inbound.VideoGenerationOutput
//	@Failure		400		{object}	apperrors.ErrorResponse
//	@Failure		422		{object}	apperrors.ErrorResponse
//	@Failure		502		{object}	apperrors.ErrorResponse
//	@Failure		503		{object}	apperrors.ErrorResponse
//	@Router			/videos [post]
func (h *Handler) GenerateVideo(c *gin.Context) {
	var input inbound.VideoGenerationInput
	if !bind(c, &input) {
		return
	}

	kind, err := generation.ParseInputKind(input.Type)
	if err != nil {
		respondFailure(c, generation.Invalid(generation.CapabilityVideoGenerate, err))
		return
	}

	res := h.domain.GenerateVideo(c.Request.Context(), input.Prompt, generation.VideoOptions{
		InputKind:      kind,
		SourceImageURL: input.ImageURL,
		Premium:        bool(input.IsPremium),
	})
	if !res.IsSuccess() {
		respondFailure(c, res)
		return
	}

	c.JSON(http.StatusOK, inbound.VideoGenerationOutput{
		Success:  true,
		VideoURL: res.Payload(),
		Filename: generation.SuggestedFilename(res.Capability(), h.now()),
	})
}

// ListImageModels lists the allow-listed image models.
//
//	@Summary	List image models
//	@Tags		Generation
//	@Produce	json
//	@Success	200	{object}	inbound.ImageModelsOutput
//	@Router		/images/models [get]
func (h *Handler) ListImageModels(c *gin.Context) {
	models := h.domain.ImageModels()
	c.JSON(http.StatusOK, inbound.ImageModelsOutput{
		Models:  models.Models,
		Default: models.Default,
	})
}

// UpstreamHealth reports the health of every upstream. The endpoint itself
// always answers 200; a degraded status means at least one upstream is
// unhealthy.
//
//	@Summary	Upstream health
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	inbound.UpstreamHealthOutput
//	@Router		/health/upstreams [get]
func (h *Handler) UpstreamHealth(c *gin.Context) {
	upstreams := h.domain.UpstreamStatus(c.Request.Context())

	status := "ok"
	for _, u := range upstreams {
		if !u.Healthy {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, inbound.UpstreamHealthOutput{
		Status:    status,
		Upstreams: upstreams,
	})
}
