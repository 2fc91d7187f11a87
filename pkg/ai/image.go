package ai

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const defaultImageMediaType = "image/png"

// Image is a base64 payload stripped of any data URL header.
type Image struct {
	Data      string
	MediaType string
}

// DataURL renders the image in the data URL form expected by OpenAI.
func (i Image) DataURL() string {
	return "data:" + i.MediaType + ";base64," + i.Data
}

// NormalizeImage strips a "data:image/...;base64," header and resolves the media type.
// A nil image is returned for blank input.
func NormalizeImage(raw string) *Image {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "data:image") {
		if idx := strings.Index(raw, "base64,"); idx >= 0 {
			header := raw[len("data:"):idx]
			data := raw[idx+len("base64,"):]
			mediaType := strings.TrimSuffix(header, ";")
			if semi := strings.Index(mediaType, ";"); semi >= 0 {
				mediaType = mediaType[:semi]
			}
			if !strings.HasPrefix(mediaType, "image/") {
				mediaType = sniffMediaType(data)
			}
			return &Image{Data: data, MediaType: mediaType}
		}
	}

	return &Image{Data: raw, MediaType: sniffMediaType(raw)}
}

func sniffMediaType(data string) string {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return defaultImageMediaType
		}
	}

	detected := mimetype.Detect(decoded)
	if detected == nil || !strings.HasPrefix(detected.String(), "image/") {
		return defaultImageMediaType
	}
	return detected.String()
}
