package textutil

import (
	"net/url"
	"strings"
)

// jobIDParam survives canonicalization; everything else in a LinkedIn query
// string is tracking or UI state.
const jobIDParam = "currentJobId"

// CanonicalJobURL strips tracking parameters and fragments so the same
// posting always maps to the same URL. Unparseable input is returned trimmed.
func CanonicalJobURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	q := u.Query()
	kept := url.Values{}
	if id := q.Get(jobIDParam); id != "" {
		kept.Set(jobIDParam, id)
	}
	u.RawQuery = kept.Encode()
	return u.String()
}
