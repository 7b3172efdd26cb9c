package verdict

import (
	"encoding/json"
	"strings"
)

// Status is the tier reported by the analysis backend.
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
	StatusError  Status = "error"
)

// Alert is a single explanatory finding attached to a verdict.
type Alert struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Verdict is the structured outcome of a text or image analysis.
// Image verdicts additionally carry the registry match fields.
type Verdict struct {
	Status     Status   `json:"status,omitempty"`
	Alerts     []Alert  `json:"alerts,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Error      string   `json:"error,omitempty"`

	SHA256 string `json:"sha256,omitempty"`
	PHash  string `json:"phash,omitempty"`
	Source string `json:"source,omitempty"`
	CID    string `json:"cid,omitempty"`

	// Extra holds backend fields this type does not name. They are written back
	// unchanged when the verdict is encoded.
	Extra map[string]json.RawMessage `json:"-"`
}

// fields has Verdict's layout without its JSON methods.
type fields Verdict

var knownFields = map[string]struct{}{
	"status": {}, "alerts": {}, "categories": {}, "reason": {}, "error": {},
	"sha256": {}, "phash": {}, "source": {}, "cid": {},
}

// MarshalJSON encodes the named fields and then any Extra fields they do not shadow.
func (v Verdict) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(fields(v))
	if err != nil || len(v.Extra) == 0 {
		return b, err
	}
	out := make(map[string]json.RawMessage, len(v.Extra)+len(knownFields))
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	for k, raw := range v.Extra {
		if _, known := knownFields[strings.ToLower(k)]; known {
			continue
		}
		out[k] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the named fields and keeps the rest in Extra.
func (v *Verdict) UnmarshalJSON(b []byte) error {
	var f fields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for k := range all {
		if _, known := knownFields[strings.ToLower(k)]; known {
			delete(all, k)
		}
	}
	if len(all) == 0 {
		all = nil
	}
	f.Extra = all
	*v = Verdict(f)
	return nil
}

// Error placeholders written when the backend cannot produce a verdict.
const (
	ErrInvalidJSON      = "Invalid JSON"
	ReasonInvalidJSON   = "Invalid JSON from backend"
	ReasonBackendFailed = "Backend request failed"
)

// NewError builds a synthetic error verdict carrying err as its error marker.
func NewError(err string) *Verdict {
	return &Verdict{Status: StatusError, Error: err}
}

// NewErrorWithReason builds a synthetic error verdict with a human readable reason.
func NewErrorWithReason(reason string) *Verdict {
	return &Verdict{Status: StatusError, Reason: reason}
}

// Normalized returns the status lower-cased, the form the popup keys colors on.
func (v *Verdict) Normalized() Status {
	if v == nil {
		return ""
	}
	return Status(strings.ToLower(strings.TrimSpace(string(v.Status))))
}

// IsEmpty reports whether there is nothing to render.
func (v *Verdict) IsEmpty() bool {
	return v == nil || v.Normalized() == ""
}

// IsError reports whether v is an error verdict.
func (v *Verdict) IsError() bool {
	return v.Normalized() == StatusError
}
