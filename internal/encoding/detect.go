package encoding

import (
	"strings"

	"github.com/saintfish/chardet"
)

// maxDetectBytes bounds how much of a payload the charset detector sees.
const maxDetectBytes = 4096

// Detect returns the best-guess charset of b in lower case, falling back to
// "utf-8" when the detector has no opinion.
func Detect(b []byte) string {
	if len(b) > maxDetectBytes {
		b = b[:maxDetectBytes]
	}
	if len(b) == 0 {
		return "utf-8"
	}

	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(b)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}
