package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// errTooLarge reports an upload payload over the configured cap.
var errTooLarge = errors.New("upload too large")

// uploadRequest carries one browser FileReader upload. Contents holds the
// data-URL string "<mediatype>;base64,<payload>".
type uploadRequest struct {
	Filename string `json:"filename"`
	Contents string `json:"contents"`
}

// catalogUploadRequest carries a batch of catalog uploads.
type catalogUploadRequest struct {
	Files []uploadRequest `json:"files"`
}

// decodeDataURL strips the mediatype prefix up to the first comma and
// decodes the base64 payload. maxBytes <= 0 disables the size cap.
func decodeDataURL(contents string, maxBytes int64) ([]byte, error) {
	_, payload, found := strings.Cut(contents, ",")
	if !found {
		return nil, fmt.Errorf("malformed data URL: missing comma separator")
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(payload))) > maxBytes {
		return nil, errTooLarge
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}
	return raw, nil
}
