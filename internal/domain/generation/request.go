package generation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// ImageOptions holds image generation options. Zero values fall back to the
// image policy defaults.
type ImageOptions struct {
	Width  int
	Height int
	Model  string
}

// VideoOptions holds video generation options.
type VideoOptions struct {
	InputKind      InputKind
	SourceImageURL string
	Premium        bool
}

// Request is a single generation request.
type Request struct {
	Capability Capability
	Prompt     string
	Image      *ImageOptions
	Video      *VideoOptions
}

// NewTextRequest creates a text enhancement request.
func NewTextRequest(prompt string) *Request {
	return &Request{
		Capability: CapabilityTextEnhance,
		Prompt:     prompt,
	}
}

// NewImageRequest creates an image generation request.
func NewImageRequest(prompt string, opts ImageOptions) *Request {
	return &Request{
		Capability: CapabilityImageGenerate,
		Prompt:     prompt,
		Image:      &opts,
	}
}

// NewVideoRequest creates a video generation request.
func NewVideoRequest(prompt string, opts VideoOptions) *Request {
	return &Request{
		Capability: CapabilityVideoGenerate,
		Prompt:     prompt,
		Video:      &opts,
	}
}

// ImagePolicy constrains image requests.
type ImagePolicy struct {
	Models        []string
	DefaultModel  string
	DefaultWidth  int
	DefaultHeight int
	MaxDimension  int
}

// DefaultImagePolicy returns the default image policy.
func DefaultImagePolicy() ImagePolicy {
	return ImagePolicy{
		Models:        []string{"flux-schnell", "flux-dev", "flux-pro"},
		DefaultModel:  "flux-schnell",
		DefaultWidth:  1024,
		DefaultHeight: 1024,
		MaxDimension:  2048,
	}
}

// Supports reports whether the model is allow-listed. An empty allow-list
// accepts any model.
func (p ImagePolicy) Supports(model string) bool {
	if len(p.Models) == 0 {
		return true
	}
	return slices.Contains(p.Models, model)
}

// resolve applies defaults to opts and validates the result.
func (p ImagePolicy) resolve(opts ImageOptions) (ImageOptions, error) {
	if opts.Model == "" {
		opts.Model = p.DefaultModel
	}
	if opts.Width == 0 {
		opts.Width = p.DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = p.DefaultHeight
	}

	if !p.Supports(opts.Model) {
		return opts, fmt.Errorf("%w %q", ErrUnsupportedModel, opts.Model)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return opts, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, opts.Width, opts.Height)
	}
	if p.MaxDimension > 0 && (opts.Width > p.MaxDimension || opts.Height > p.MaxDimension) {
		return opts, fmt.Errorf("%w: %dx%d exceeds %d", ErrInvalidDimensions, opts.Width, opts.Height, p.MaxDimension)
	}
	return opts, nil
}

// Validate checks the caller-side preconditions of the request.
func (r *Request) Validate(policy ImagePolicy) error {
	if r == nil {
		return ErrMissingOptions
	}
	if !r.Capability.IsValid() {
		return fmt.Errorf("%w %q", ErrUnknownCapability, r.Capability)
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if !utf8.ValidString(r.Prompt) {
		return fmt.Errorf("%w: prompt", ErrInvalidEncoding)
	}

	switch r.Capability {
	case CapabilityImageGenerate:
		opts := ImageOptions{}
		if r.Image != nil {
			opts = *r.Image
		}
		_, err := policy.resolve(opts)
		return err
	case CapabilityVideoGenerate:
		if r.Video == nil {
			return ErrMissingOptions
		}
		kind := r.Video.InputKind
		if kind == "" {
			kind = InputKindText
		}
		if !kind.IsValid() {
			return ErrUnknownInputKind
		}
		if kind == InputKindImage {
			if strings.TrimSpace(r.Video.SourceImageURL) == "" {
				return ErrMissingSourceImage
			}
			if !utf8.ValidString(r.Video.SourceImageURL) {
				return fmt.Errorf("%w: image url", ErrInvalidEncoding)
			}
		}
	}
	return nil
}
