package localstore

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/swapdiary/internal/common"
)

const defaultContentType = "application/octet-stream"

// EncodeDataURL inlines raw bytes as a base64 data URL.
func EncodeDataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = defaultContentType
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL reverses EncodeDataURL.
func DecodeDataURL(ref string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data url", common.ErrValidation)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: malformed data url", common.ErrValidation)
	}
	contentType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: data url is not base64", common.ErrValidation)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return contentType, data, nil
}
