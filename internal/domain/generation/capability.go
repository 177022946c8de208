// Package generation contains the request building and response normalization
// logic for the upstream text, image and video generation services.
package generation

import "strings"

// Capability represents one of the upstream request kinds.
type Capability string

const (
	CapabilityTextEnhance   Capability = "text_enhance"
	CapabilityImageGenerate Capability = "image_generate"
	CapabilityVideoGenerate Capability = "video_generate"
)

// Capabilities lists every capability in a stable order.
func Capabilities() []Capability {
	return []Capability{
		CapabilityTextEnhance,
		CapabilityImageGenerate,
		CapabilityVideoGenerate,
	}
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// IsValid checks if the capability is known.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityTextEnhance, CapabilityImageGenerate, CapabilityVideoGenerate:
		return true
	default:
		return false
	}
}

// noun is used when composing user-facing messages.
func (c Capability) noun() string {
	switch c {
	case CapabilityTextEnhance:
		return "text"
	case CapabilityImageGenerate:
		return "image"
	case CapabilityVideoGenerate:
		return "video"
	default:
		return "generation"
	}
}

// InputKind selects what a video is generated from.
type InputKind string

const (
	InputKindText  InputKind = "text"
	InputKindImage InputKind = "image"
)

// String returns the string representation of the input kind.
func (k InputKind) String() string {
	return string(k)
}

// IsValid checks if the input kind is known.
func (k InputKind) IsValid() bool {
	return k == InputKindText || k == InputKindImage
}

// ParseInputKind parses an input kind. An empty value means text.
func ParseInputKind(s string) (InputKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return InputKindText, nil
	case "image":
		return InputKindImage, nil
	default:
		return "", ErrUnknownInputKind
	}
}
