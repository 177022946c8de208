package generation

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEndpoints() Endpoints {
	return Endpoints{
		TextBaseURL:  "https://text.example.com/",
		ImageBaseURL: "https://image.example.com",
		VideoBaseURL: "https://video.example.com",
	}
}

func fixedSeed(v int) SeedSource {
	return func() int { return v }
}

func newTestBuilder(enc BodyEncoding) *Builder {
	return NewBuilder(testEndpoints(), BuilderOptions{
		VideoEncoding: enc,
		Images:        DefaultImagePolicy(),
		Seed:          fixedSeed(4242),
		UserAgent:     "mediaforge-test",
	})
}

var roundTripPrompts = []string{
	"a cat",
	"sunset over the sea, 4k",
	"100% real & unfiltered?",
	"slash/and#hash",
	"plus+sign=equals",
	"unicode: 山の上の猫 🐱",
	"quotes \"double\" and 'single' (parens) *stars* ~tilde!",
	"  leading and trailing spaces  ",
	"newline\nand\ttab",
	"%41 already-encoded looking",
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a cat", "a%20cat"},
		{"a+b", "a%2Bb"},
		{"x/y?z", "x%2Fy%3Fz"},
		{"keep-_.!~*'()", "keep-_.!~*'()"},
		{"é", "%C3%A9"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeURIComponent(tt.in))
		})
	}
}

func TestBuilder_Text(t *testing.T) {
	b := newTestBuilder(EncodingForm)

	for _, prompt := range roundTripPrompts {
		t.Run(prompt, func(t *testing.T) {
			out, err := b.Build(NewTextRequest(prompt))
			require.NoError(t, err)

			assert.Equal(t, CapabilityTextEnhance, out.Capability)
			assert.Equal(t, http.MethodGet, out.Method)
			assert.Nil(t, out.Body)
			assert.True(t, strings.HasPrefix(out.URL, "https://text.example.com/"))
			assert.Equal(t, "mediaforge-test", out.Header.Get("User-Agent"))

			u, err := url.Parse(out.URL)
			require.NoError(t, err)
			decoded, err := url.PathUnescape(strings.TrimPrefix(u.EscapedPath(), "/"))
			require.NoError(t, err)
			assert.Equal(t, prompt, decoded)
		})
	}
}

func TestBuilder_Image(t *testing.T) {
	b := newTestBuilder(EncodingForm)

	t.Run("builds url with documented parameters", func(t *testing.T) {
		out, err := b.Build(NewImageRequest("a red fox", ImageOptions{Width: 512, Height: 768, Model: "flux-dev"}))
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, out.Method)
		assert.Equal(t, 4242, out.Seed)
		assert.True(t, out.DiscardBody)
		assert.Equal(t,
			"https://image.example.com/prompt/a%20red%20fox?width=512&height=768&seed=4242&model=flux-dev&format=jpeg&nologo=true",
			out.URL,
		)
	})

	t.Run("applies defaults", func(t *testing.T) {
		out, err := b.Build(NewImageRequest("tree", ImageOptions{}))
		require.NoError(t, err)

		u, err := url.Parse(out.URL)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "1024", q.Get("width"))
		assert.Equal(t, "1024", q.Get("height"))
		assert.Equal(t, "flux-schnell", q.Get("model"))
		assert.Equal(t, "jpeg", q.Get("format"))
		assert.Equal(t, "true", q.Get("nologo"))
	})

	t.Run("prompt round-trips", func(t *testing.T) {
		for _, prompt := range roundTripPrompts {
			out, err := b.Build(NewImageRequest(prompt, ImageOptions{}))
			require.NoError(t, err)

			u, err := url.Parse(out.URL)
			require.NoError(t, err)
			decoded, err := url.PathUnescape(strings.TrimPrefix(u.EscapedPath(), "/prompt/"))
			require.NoError(t, err)
			assert.Equal(t, prompt, decoded)
		}
	})

	t.Run("rejects unknown model", func(t *testing.T) {
		_, err := b.Build(NewImageRequest("tree", ImageOptions{Model: "dall-e"}))
		assert.ErrorIs(t, err, ErrUnsupportedModel)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("rejects bad dimensions", func(t *testing.T) {
		_, err := b.Build(NewImageRequest("tree", ImageOptions{Width: -1}))
		assert.ErrorIs(t, err, ErrInvalidDimensions)

		_, err = b.Build(NewImageRequest("tree", ImageOptions{Width: 4096, Height: 10}))
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	})
}

func TestBuilder_ImageSeedIsRandomPerCall(t *testing.T) {
	b := NewBuilder(testEndpoints(), BuilderOptions{Images: DefaultImagePolicy()})

	seeds := make(map[int]struct{})
	for i := 0; i < 20; i++ {
		out, err := b.Build(NewImageRequest("same prompt", ImageOptions{}))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Seed, 0)
		assert.Less(t, out.Seed, SeedUpperBound)
		seeds[out.Seed] = struct{}{}
	}
	// 20 draws from 100000 values colliding into a single value is
	// astronomically unlikely.
	assert.Greater(t, len(seeds), 1)
}

func TestBuilder_VideoForm(t *testing.T) {
	b := newTestBuilder(EncodingForm)

	t.Run("text mode omits imageUrl", func(t *testing.T) {
		out, err := b.Build(NewVideoRequest("a dancing robot & friends", VideoOptions{
			InputKind:      InputKindText,
			SourceImageURL: "https://ignored.example.com/x.png",
			Premium:        true,
		}))
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, out.Method)
		assert.Equal(t, "https://video.example.com/api/ai/Txt2video", out.URL)
		assert.Equal(t, "application/x-www-form-urlencoded", out.Header.Get("Content-Type"))

		form, err := url.ParseQuery(string(out.Body))
		require.NoError(t, err)
		assert.Equal(t, "a dancing robot & friends", form.Get("prompt"))
		assert.Equal(t, "text", form.Get("type"))
		assert.Equal(t, "true", form.Get("isPremium"))
		assert.False(t, form.Has("imageUrl"))
	})

	t.Run("image mode carries imageUrl", func(t *testing.T) {
		out, err := b.Build(NewVideoRequest("animate this", VideoOptions{
			InputKind:      InputKindImage,
			SourceImageURL: "https://img.example.com/a.png?x=1&y=2",
		}))
		require.NoError(t, err)

		form, err := url.ParseQuery(string(out.Body))
		require.NoError(t, err)
		assert.Equal(t, "image", form.Get("type"))
		assert.Equal(t, "false", form.Get("isPremium"))
		assert.True(t, form.Has("imageUrl"))
		assert.Equal(t, "https://img.example.com/a.png?x=1&y=2", form.Get("imageUrl"))
	})

	t.Run("empty kind defaults to text", func(t *testing.T) {
		out, err := b.Build(NewVideoRequest("p", VideoOptions{}))
		require.NoError(t, err)

		form, err := url.ParseQuery(string(out.Body))
		require.NoError(t, err)
		assert.Equal(t, "text", form.Get("type"))
	})

	t.Run("prompt round-trips", func(t *testing.T) {
		for _, prompt := range roundTripPrompts {
			out, err := b.Build(NewVideoRequest(prompt, VideoOptions{}))
			require.NoError(t, err)
			form, err := url.ParseQuery(string(out.Body))
			require.NoError(t, err)
			assert.Equal(t, prompt, form.Get("prompt"))
		}
	})
}

func TestBuilder_VideoJSON(t *testing.T) {
	b := newTestBuilder(EncodingJSON)

	t.Run("text mode omits imageUrl", func(t *testing.T) {
		out, err := b.Build(NewVideoRequest("a dancing robot", VideoOptions{InputKind: InputKindText}))
		require.NoError(t, err)
		assert.Equal(t, "application/json", out.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(out.Body, &body))
		assert.Equal(t, "a dancing robot", body["prompt"])
		assert.Equal(t, "text", body["type"])
		assert.Equal(t, "false", body["isPremium"])
		_, present := body["imageUrl"]
		assert.False(t, present)
	})

	t.Run("image mode carries imageUrl", func(t *testing.T) {
		out, err := b.Build(NewVideoRequest("animate", VideoOptions{
			InputKind:      InputKindImage,
			SourceImageURL: "https://img.example.com/a.png",
			Premium:        true,
		}))
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(out.Body, &body))
		assert.Equal(t, "https://img.example.com/a.png", body["imageUrl"])
		assert.Equal(t, "true", body["isPremium"])
	})

	t.Run("prompt round-trips", func(t *testing.T) {
		for _, prompt := range roundTripPrompts {
			out, err := b.Build(NewVideoRequest(prompt, VideoOptions{}))
			require.NoError(t, err)
			var body videoJSONBody
			require.NoError(t, json.Unmarshal(out.Body, &body))
			assert.Equal(t, prompt, body.Prompt)
		}
	})
}

func TestBuilder_InvalidRequests(t *testing.T) {
	b := newTestBuilder(EncodingForm)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"nil request", nil, ErrMissingOptions},
		{"empty text prompt", NewTextRequest(""), ErrEmptyPrompt},
		{"blank image prompt", NewImageRequest("   ", ImageOptions{}), ErrEmptyPrompt},
		{"empty video prompt", NewVideoRequest("", VideoOptions{}), ErrEmptyPrompt},
		{"image video without url", NewVideoRequest("p", VideoOptions{InputKind: InputKindImage}), ErrMissingSourceImage},
		{"image video with blank url", NewVideoRequest("p", VideoOptions{InputKind: InputKindImage, SourceImageURL: " "}), ErrMissingSourceImage},
		{"unknown input kind", NewVideoRequest("p", VideoOptions{InputKind: "audio"}), ErrUnknownInputKind},
		{"video without options", &Request{Capability: CapabilityVideoGenerate, Prompt: "p"}, ErrMissingOptions},
		{"unknown capability", &Request{Capability: "music", Prompt: "p"}, ErrUnknownCapability},
		{"invalid utf-8 text prompt", NewTextRequest("caf\xe9"), ErrInvalidEncoding},
		{"invalid utf-8 video prompt", NewVideoRequest("a \xff cat", VideoOptions{}), ErrInvalidEncoding},
		{"invalid utf-8 image url", NewVideoRequest("p", VideoOptions{InputKind: InputKindImage, SourceImageURL: "https://x/\xc3(.png"}), ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := b.Build(tt.req)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsInvalidRequest(err))
		})
	}
}

func TestNewBuilder_Defaults(t *testing.T) {
	b := NewBuilder(testEndpoints(), BuilderOptions{VideoEncoding: "xml"})

	out, err := b.Build(NewVideoRequest("p", VideoOptions{}))
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", out.Header.Get("Content-Type"))
	assert.Empty(t, out.Header.Get("User-Agent"))
}

func TestParseInputKind(t *testing.T) {
	tests := []struct {
		in      string
		want    InputKind
		wantErr bool
	}{
		{"", InputKindText, false},
		{"text", InputKindText, false},
		{"IMAGE", InputKindImage, false},
		{" image ", InputKindImage, false},
		{"video", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInputKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownInputKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
