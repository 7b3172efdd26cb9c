package popup

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognitive-shield/sentinel/internal/core/domain/verdict"
)

func TestRender(t *testing.T) {
	alerts := []verdict.Alert{{Title: "Urgency", Content: "Creates artificial time pressure."}}

	tests := []struct {
		name       string
		in         *verdict.Verdict
		tone       Tone
		statusText string
		allClear   bool
		empty      bool
	}{
		{name: "nil result", in: nil, tone: ToneNeutral, statusText: EmptyText, empty: true},
		{name: "missing status", in: &verdict.Verdict{Reason: "x"}, tone: ToneNeutral, statusText: EmptyText, empty: true},
		{name: "green without alerts", in: &verdict.Verdict{Status: "green"}, tone: ToneGreen, statusText: GreenText, allClear: true},
		{name: "green with alerts", in: &verdict.Verdict{Status: "green", Alerts: alerts}, tone: ToneGreen, statusText: GreenText},
		{name: "mixed case yellow", in: &verdict.Verdict{Status: "YeLLow", Alerts: alerts}, tone: ToneYellow, statusText: "Analysis: Yellow"},
		{name: "red", in: &verdict.Verdict{Status: "red"}, tone: ToneRed, statusText: "Analysis: Red"},
		{name: "error placeholder", in: verdict.NewError(verdict.ErrInvalidJSON), tone: ToneNeutral, statusText: "Analysis: Error"},
		{name: "unknown status", in: &verdict.Verdict{Status: "purple"}, tone: ToneNeutral, statusText: "Analysis: Purple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.in)
			assert.Equal(t, tt.tone, got.Tone)
			assert.Equal(t, tt.statusText, got.StatusText)
			assert.Equal(t, tt.allClear, got.AllClear)
			assert.Equal(t, tt.empty, got.Empty)
			assert.NotNil(t, got.Alerts)
		})
	}
}

func TestRender_PassesAlertsThrough(t *testing.T) {
	v := &verdict.Verdict{Status: "red", Alerts: []verdict.Alert{{Title: "A", Content: "a"}, {Title: "B", Content: "b"}}}

	got := Render(v)
	require.Len(t, got.Alerts, 2)
	assert.Equal(t, "B", got.Alerts[1].Title)

	got.Alerts[0].Title = "changed"
	assert.Equal(t, "A", v.Alerts[0].Title)
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	view := Render(&verdict.Verdict{Status: "red", Alerts: []verdict.Alert{{Title: "<b>Fear</b>", Content: "Appeals to fear."}}})

	require.NoError(t, WritePage(&buf, view, "/api/v1/popup/stream"))
	out := buf.String()
	assert.Contains(t, out, "Analysis: Red")
	assert.Contains(t, out, "tone-red")
	assert.Contains(t, out, "&lt;b&gt;Fear&lt;/b&gt;")
	assert.Contains(t, out, "EventSource")
	assert.NotContains(t, out, `class="all-clear"`)
}

func TestWritePage_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, Render(nil), ""))
	assert.Contains(t, buf.String(), EmptyText)
	assert.NotContains(t, buf.String(), "EventSource")
}

func TestWritePage_GreenAllClear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, Render(&verdict.Verdict{Status: "green"}), ""))
	assert.Contains(t, buf.String(), GreenText)
	assert.Contains(t, buf.String(), `class="all-clear"`)
}
