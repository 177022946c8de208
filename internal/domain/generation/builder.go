package generation

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SeedUpperBound is the exclusive upper bound of image seeds.
const SeedUpperBound = 100000

const videoPath = "/api/ai/Txt2video"

// BodyEncoding selects how video request bodies are encoded.
type BodyEncoding string

const (
	EncodingForm BodyEncoding = "form"
	EncodingJSON BodyEncoding = "json"
)

// IsValid checks if the encoding is known.
func (e BodyEncoding) IsValid() bool {
	return e == EncodingForm || e == EncodingJSON
}

// SeedSource draws an image seed in [0, SeedUpperBound).
type SeedSource func() int

// RandomSeed draws a seed uniformly from [0, SeedUpperBound).
func RandomSeed() int {
	return rand.IntN(SeedUpperBound)
}

// Endpoints holds the upstream base URLs.
type Endpoints struct {
	TextBaseURL  string
	ImageBaseURL string
	VideoBaseURL string
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	VideoEncoding BodyEncoding
	Images        ImagePolicy
	Seed          SeedSource
	UserAgent     string
}

// OutboundRequest is a fully specified upstream HTTP call.
type OutboundRequest struct {
	Capability Capability
	Method     string
	URL        string
	Header     http.Header
	Body       []byte

	// Seed is the seed drawn for image requests.
	Seed int
	// DiscardBody tells the transport the body is not needed for normalization.
	DiscardBody bool
}

// Builder constructs outbound requests. It performs no I/O.
type Builder struct {
	endpoints Endpoints
	opts      BuilderOptions
}

// NewBuilder creates a new request builder.
func NewBuilder(endpoints Endpoints, opts BuilderOptions) *Builder {
	if !opts.VideoEncoding.IsValid() {
		opts.VideoEncoding = EncodingForm
	}
	if opts.Seed == nil {
		opts.Seed = RandomSeed
	}
	endpoints.TextBaseURL = strings.TrimRight(endpoints.TextBaseURL, "/")
	endpoints.ImageBaseURL = strings.TrimRight(endpoints.ImageBaseURL, "/")
	endpoints.VideoBaseURL = strings.TrimRight(endpoints.VideoBaseURL, "/")
	return &Builder{endpoints: endpoints, opts: opts}
}

// ImagePolicy returns the image policy used by the builder.
func (b *Builder) ImagePolicy() ImagePolicy {
	return b.opts.Images
}

// Build validates req and builds the outbound request for it.
func (b *Builder) Build(req *Request) (*OutboundRequest, error) {
	if err := req.Validate(b.opts.Images); err != nil {
		return nil, err
	}

	switch req.Capability {
	case CapabilityTextEnhance:
		return b.buildText(req), nil
	case CapabilityImageGenerate:
		return b.buildImage(req)
	case CapabilityVideoGenerate:
		return b.buildVideo(req)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCapability, req.Capability)
	}
}

func (b *Builder) buildText(req *Request) *OutboundRequest {
	out := b.newRequest(CapabilityTextEnhance, http.MethodGet, b.endpoints.TextBaseURL+"/"+EncodeURIComponent(req.Prompt))
	out.Header.Set("Accept", "text/plain")
	return out
}

func (b *Builder) buildImage(req *Request) (*OutboundRequest, error) {
	opts := ImageOptions{}
	if req.Image != nil {
		opts = *req.Image
	}
	opts, err := b.opts.Images.resolve(opts)
	if err != nil {
		return nil, err
	}

	seed := b.opts.Seed()

	// Parameter order follows the upstream documentation.
	var q strings.Builder
	q.WriteString("width=")
	q.WriteString(strconv.Itoa(opts.Width))
	q.WriteString("&height=")
	q.WriteString(strconv.Itoa(opts.Height))
	q.WriteString("&seed=")
	q.WriteString(strconv.Itoa(seed))
	q.WriteString("&model=")
	q.WriteString(url.QueryEscape(opts.Model))
	q.WriteString("&format=jpeg&nologo=true")

	target := b.endpoints.ImageBaseURL + "/prompt/" + EncodeURIComponent(req.Prompt) + "?" + q.String()
	out := b.newRequest(CapabilityImageGenerate, http.MethodGet, target)
	out.Header.Set("Accept", "image/*")
	out.Seed = seed
	out.DiscardBody = true
	return out, nil
}

// videoJSONBody is the JSON encoding of a video request. ImageURL is a
// pointer so that text-mode requests omit the field entirely.
type videoJSONBody struct {
	Prompt    string  `json:"prompt"`
	Type      string  `json:"type"`
	IsPremium string  `json:"isPremium"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

func (b *Builder) buildVideo(req *Request) (*OutboundRequest, error) {
	kind := req.Video.InputKind
	if kind == "" {
		kind = InputKindText
	}
	premium := strconv.FormatBool(req.Video.Premium)

	out := b.newRequest(CapabilityVideoGenerate, http.MethodPost, b.endpoints.VideoBaseURL+videoPath)
	out.Header.Set("Accept", "application/json")

	switch b.opts.VideoEncoding {
	case EncodingJSON:
		body := videoJSONBody{
			Prompt:    req.Prompt,
			Type:      kind.String(),
			IsPremium: premium,
		}
		if kind == InputKindImage {
			imageURL := req.Video.SourceImageURL
			body.ImageURL = &imageURL
		}
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal video body: %w", err)
		}
		out.Body = data
		out.Header.Set("Content-Type", "application/json")
	default:
		form := url.Values{}
		form.Set("prompt", req.Prompt)
		form.Set("type", kind.String())
		form.Set("isPremium", premium)
		if kind == InputKindImage {
			form.Set("imageUrl", req.Video.SourceImageURL)
		}
		out.Body = []byte(form.Encode())
		out.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return out, nil
}

func (b *Builder) newRequest(c Capability, method, target string) *OutboundRequest {
	h := make(http.Header)
	if b.opts.UserAgent != "" {
		h.Set("User-Agent", b.opts.UserAgent)
	}
	return &OutboundRequest{
		Capability: c,
		Method:     method,
		URL:        target,
		Header:     h,
	}
}

// EncodeURIComponent percent-encodes s the way browsers encode a single URI
// component: everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped and
// spaces become %20.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return componentUnescaper.Replace(escaped)
}

var componentUnescaper = strings.NewReplacer(
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
