package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxBodySize bounds bodies when JSON is called with limit <= 0.
const DefaultMaxBodySize = 1 << 20

// JSON strictly decodes a single JSON object from the request body into v.
// Unknown fields, trailing data and bodies over limit bytes are rejected.
// A missing Content-Type is accepted; any other media type is not.
func JSON(r *http.Request, v any, limit int64) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: %s, expected application/json", ErrUnsupportedMediaType, ct)
		}
	}
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	// One extra byte tells an exact-size body from an oversized one.
	body := io.LimitReader(r.Body, limit+1)
	counted := &countingReader{r: body}
	dec := json.NewDecoder(counted)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if counted.n > limit {
			return ErrBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if counted.n > limit {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
