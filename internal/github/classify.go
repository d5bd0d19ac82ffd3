package github

import (
	"encoding/json"
	"io"
	"net/http"
)

// decodeResponse maps a response onto either a T or a typed error. The
// expected name ends up in decode errors so a notice says what was wanted.
func decodeResponse[T any](resp *http.Response, expected string) (T, error) {
	var zero T

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &TransportError{Op: "read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := &RemoteError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, remote); err != nil {
			return zero, &DecodeError{Expected: "GitHub error", Err: err}
		}
		return zero, remote
	}

	var payload T
	if err := json.Unmarshal(body, &payload); err != nil {
		return zero, &DecodeError{Expected: expected, Err: err}
	}
	return payload, nil
}
