package generation

import (
	"fmt"
	"time"
)

// SuggestedFilename returns the download filename for a generated artifact.
func SuggestedFilename(c Capability, now time.Time) string {
	ms := now.UnixMilli()
	switch c {
	case CapabilityImageGenerate:
		return fmt.Sprintf("mediaforge-%d.jpg", ms)
	case CapabilityVideoGenerate:
		return fmt.Sprintf("mediaforge-video-%d.mp4", ms)
	default:
		return fmt.Sprintf("mediaforge-%d.txt", ms)
	}
}
