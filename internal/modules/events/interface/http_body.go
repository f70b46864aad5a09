package transport

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"
)

// MaxBodyBytes bounds every inbound request body.
const MaxBodyBytes = 1 << 20

// readJSONBody decodes the request body as a JSON object. Empty, malformed or
// non-object bodies all read as an empty object; only an oversized body is an
// error.
func readJSONBody(c echo.Context) (map[string]any, error) {
	body := map[string]any{}
	req := c.Request()
	if req.Body == nil {
		return body, nil
	}

	raw, err := io.ReadAll(io.LimitReader(req.Body, MaxBodyBytes+1))
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, he
		}
		return body, nil
	}
	if len(raw) > MaxBodyBytes {
		return nil, echo.ErrStatusRequestEntityTooLarge
	}
	if len(raw) == 0 {
		return body, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded == nil {
		return body, nil
	}
	return decoded, nil
}
