package utils

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Largest calendar accepted, downloaded or uploaded.
const MaxCalendarBytes = 10 << 20

// ErrFetch marks a remote calendar that couldn't be downloaded: unreachable,
// not 200, or too large.
var ErrFetch = errors.New("can't fetch calendar")

// FetchWithHash downloads url and returns its body along with the hex
// sha256 of it, so callers can tell whether a remote calendar changed.
func FetchWithHash(ctx context.Context, client *http.Client, url string) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("FetchWithHash: %w: %w", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("FetchWithHash: %w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("FetchWithHash: %w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxCalendarBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("FetchWithHash: %w: %w", ErrFetch, err)
	}
	if len(body) > MaxCalendarBytes {
		return nil, "", fmt.Errorf("FetchWithHash: %w: larger than %d bytes", ErrFetch, MaxCalendarBytes)
	}
	return body, HashBytes(body), nil
}

func HashBytes(b []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(b))
}
