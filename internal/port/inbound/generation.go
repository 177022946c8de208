package inbound

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mediaforge/server/internal/domain/generation"
)

// --- Request/Response Types ---

// TextEnhanceInput represents a text enhancement request.
type TextEnhanceInput struct {
	Prompt string `json:"prompt" form:"prompt"`
}

// TextEnhanceOutput represents a text enhancement response.
type TextEnhanceOutput struct {
	Success  bool   `json:"success"`
	Text     string `json:"text"`
	Filename string `json:"filename"`
}

// ImageGenerationInput represents an image generation request. Zero
// dimensions and an empty model use the configured defaults.
type ImageGenerationInput struct {
	Prompt string `json:"prompt" form:"prompt"`
	Width  int    `json:"width,omitempty" form:"width" binding:"omitempty,min=1"`
	Height int    `json:"height,omitempty" form:"height" binding:"omitempty,min=1"`
	Model  string `json:"model,omitempty" form:"model"`
}

// ImageGenerationOutput represents an image generation response.
type ImageGenerationOutput struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// VideoGenerationInput represents a video generation request. Field names
// follow the video upstream's wire format.
type VideoGenerationInput struct {
	Prompt    string   `json:"prompt" form:"prompt"`
	Type      string   `json:"type,omitempty" form:"type"`
	IsPremium FlexBool `json:"isPremium,omitempty" form:"isPremium"`
	ImageURL  string   `json:"imageUrl,omitempty" form:"imageUrl"`
}

// VideoGenerationOutput represents a video generation response.
type VideoGenerationOutput struct {
	Success  bool   `json:"success"`
	VideoURL string `json:"videoUrl"`
	Filename string `json:"filename"`
}

// ImageModelsOutput lists the allow-listed image models.
type ImageModelsOutput struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// UpstreamHealthOutput reports the health of every upstream.
type UpstreamHealthOutput struct {
	Status    string                      `json:"status"`
	Upstreams []generation.UpstreamStatus `json:"upstreams"`
}

// FlexBool accepts true/false as a JSON boolean or as a string, the way the
// video upstream sends isPremium.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return b.UnmarshalParam(s)
}

// UnmarshalParam implements binding.BindUnmarshaler for form and query values.
func (b *FlexBool) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(param)
	if err != nil {
		return err
	}
	*b = FlexBool(v)
	return nil
}

// --- Domain Interface ---

// GenerationDomain defines the generation domain service interface.
type GenerationDomain interface {
	// EnhanceText rewrites a prompt through the text upstream.
	EnhanceText(ctx context.Context, prompt string) *generation.Result

	// GenerateImage returns the URL of a generated image.
	GenerateImage(ctx context.Context, prompt string, opts generation.ImageOptions) *generation.Result

	// GenerateVideo returns the URL of a generated video.
	GenerateVideo(ctx context.Context, prompt string, opts generation.VideoOptions) *generation.Result

	// ImageModels returns the allow-listed image models.
	ImageModels() generation.ImageModels

	// UpstreamStatus returns a health snapshot of every upstream.
	UpstreamStatus(ctx context.Context) []generation.UpstreamStatus
}

// --- HTTP Port Interfaces ---

// GenerationHttpPort defines generation HTTP handlers.
type GenerationHttpPort interface {
	EnhanceText(c *gin.Context)
	GenerateImage(c *gin.Context)
	GenerateVideo(c *gin.Context)
	ListImageModels(c *gin.Context)
	UpstreamHealth(c *gin.Context)
}
