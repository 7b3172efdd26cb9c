package visit

import (
	"net/url"
	"strings"
	"time"
)

// Record is one logged top-level navigation. T is unix milliseconds.
type Record struct {
	Domain string `json:"domain"`
	T      int64  `json:"t"`
}

// NewRecord stamps domain with at.
func NewRecord(domain string, at time.Time) Record {
	return Record{Domain: domain, T: at.UnixMilli()}
}

// Time returns the record timestamp.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.T)
}

// Navigation is a committed browser navigation. FrameID 0 is the main frame.
type Navigation struct {
	URL     string `json:"url"`
	FrameID int    `json:"frameId"`
}

// IsTopLevelHTTP reports whether the navigation should be logged: main frame, http(s) only.
func (n Navigation) IsTopLevelHTTP() bool {
	if n.FrameID != 0 || n.URL == "" {
		return false
	}
	u, err := url.Parse(n.URL)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// GetDomain returns the hostname of rawURL without a leading "www." label.
// ok is false when rawURL is not an absolute URL with a host.
func GetDomain(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}
	return strings.TrimPrefix(host, "www."), true
}

// Prune drops records strictly older than cutoff, preserving order.
func Prune(records []Record, cutoff time.Time) []Record {
	min := cutoff.UnixMilli()
	kept := make([]Record, 0, len(records)+1)
	for _, r := range records {
		if r.T >= min {
			kept = append(kept, r)
		}
	}
	return kept
}
