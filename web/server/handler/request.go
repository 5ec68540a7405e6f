package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"go.hackfix.me/purr/web/server/types"
)

const maxBodySize = 1024 * 1024 // 1MiB

var wildcardRx = regexp.MustCompile(`\{([^}.]+)(?:\.\.\.)?\}`)

// source gives bindings access to the raw parts of a request. The body is
// read and decoded at most once.
type source struct {
	r     *http.Request
	query url.Values

	bodyRead bool
	bodyVal  any
	bodyErr  error
}

func newSource(r *http.Request) *source {
	return &source{r: r, query: r.URL.Query()}
}

func (s *source) body() (any, bool, error) {
	if !s.bodyRead {
		s.bodyRead = true
		s.bodyVal, s.bodyErr = decodeBody(s.r)
	}

	return s.bodyVal, true, s.bodyErr
}

func (s *source) queryValue(name string) (string, bool) {
	vals, ok := s.query[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func (s *source) queryValues() map[string]any {
	out := make(map[string]any, len(s.query))
	for k, vals := range s.query {
		if len(vals) == 1 {
			out[k] = vals[0]
			continue
		}
		arr := make([]any, len(vals))
		for i, v := range vals {
			arr[i] = v
		}
		out[k] = arr
	}

	return out
}

// pathValues returns all wildcard values of the matched route pattern.
func (s *source) pathValues() map[string]any {
	out := map[string]any{}
	for _, m := range wildcardRx.FindAllStringSubmatch(s.r.Pattern, -1) {
		out[m[1]] = s.r.PathValue(m[1])
	}

	return out
}

// decodeBody decodes the JSON request body into generic values. An absent or
// blank body decodes to nil.
func decodeBody(r *http.Request) (any, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, types.NewError(http.StatusBadRequest,
			fmt.Sprintf("failed reading request body: %s", err))
	}
	if len(data) > maxBodySize {
		return nil, types.NewError(http.StatusRequestEntityTooLarge, "request body too large")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var v any
	if err = json.Unmarshal(data, &v); err != nil {
		return nil, types.NewError(http.StatusBadRequest,
			fmt.Sprintf("failed decoding request body as JSON: %s", err))
	}

	return v, nil
}
