package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go-linkedin-scraper/internal/scraper"
)

// RequestError is the caller's fault and maps to 400.
type RequestError struct {
	Msg string
}

func (e *RequestError) Error() string {
	return e.Msg
}

// scrapeRequest uses pointers so an explicit null falls back to the default.
type scrapeRequest struct {
	Keyword    *string  `json:"keyword"`
	Location   *string  `json:"location"`
	Exclude    []string `json:"exclude"`
	Modality   *string  `json:"modality"`
	TimeFilter *string  `json:"time_filter"`
}

// parseRequest decodes a scrape body. The body must be a JSON object;
// unknown modality and time_filter values are ignored, wrong types are not.
func parseRequest(body []byte) (scraper.SearchQuery, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return scraper.SearchQuery{}, &RequestError{Msg: "invalid JSON: body must be an object"}
	}

	var req scrapeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return scraper.SearchQuery{}, &RequestError{Msg: fmt.Sprintf("invalid JSON: field %q must be %s", typeErr.Field, typeErr.Type)}
		}
		return scraper.SearchQuery{}, &RequestError{Msg: "invalid JSON: " + err.Error()}
	}

	return scraper.NewSearchQuery(
		deref(req.Keyword),
		deref(req.Location),
		req.Exclude,
		deref(req.Modality),
		deref(req.TimeFilter),
	), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
