// Package popup turns the latest text verdict into the state the popup renders.
package popup

import (
	"strings"

	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
)

// Tone is the color state of the status bar.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneGreen   Tone = "green"
	ToneYellow  Tone = "yellow"
	ToneRed     Tone = "red"
)

const (
	EmptyText    = "No analysis yet"
	GreenText    = "No manipulative techniques detected"
	AllClearText = "All clear!"
	AllClearHint = "This content appears to be straightforward."
)

// View is the render-ready popup state.
type View struct {
	Empty      bool            `json:"empty"`
	Status     string          `json:"status"`
	Tone       Tone            `json:"tone"`
	StatusText string          `json:"statusText"`
	Alerts     []verdict.Alert `json:"alerts"`
	AllClear   bool            `json:"allClear"`
}

// Render maps a verdict to its popup view. A nil verdict or one without a
// status yields the empty state; statuses other than green, yellow and red
// keep the neutral tone.
func Render(v *verdict.Verdict) View {
	if v.IsEmpty() {
		return View{Empty: true, Tone: ToneNeutral, StatusText: EmptyText, Alerts: []verdict.Alert{}}
	}

	status := string(v.Normalized())
	view := View{
		Status:     status,
		Tone:       ToneNeutral,
		StatusText: "Analysis: " + capitalize(status),
		Alerts:     append([]verdict.Alert{}, v.Alerts...),
	}

	switch verdict.Status(status) {
	case verdict.StatusGreen:
		view.Tone = ToneGreen
		view.StatusText = GreenText
		view.AllClear = len(view.Alerts) == 0
	case verdict.StatusYellow:
		view.Tone = ToneYellow
	case verdict.StatusRed:
		view.Tone = ToneRed
	}
	return view
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
