// Package netx downloads pictures from presigned object storage URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

var httpClient = &http.Client{}

// DownloadPresignedURL fetches url with GET and returns at most maxBytes of
// the body along with its content type. Anything but 200 is an error.
func DownloadPresignedURL(ctx context.Context, url string, maxBytes int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("download failed: body exceeds %d bytes", maxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
