package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/scorecast/go/internal/models"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(time.UTC)
	require.NoError(t, err)
	return r
}

func TestNewBoard_Demo(t *testing.T) {
	b := NewBoard(models.DemoMatch())

	assert.Equal(t, "T20 International Match", b.Title)
	assert.True(t, b.Live)
	assert.Equal(t, "India", b.Batting.Name)
	assert.Equal(t, "178/4", b.Batting.Score)
	assert.Equal(t, "17.3", b.Batting.Overs)
	assert.Equal(t, "Australia", b.Bowling.Name)
	assert.Equal(t, "165/8", b.Bowling.Score)
	assert.Equal(t, "10.23", b.CurrentRunRate)

	assert.True(t, b.ShowChase)
	assert.Equal(t, "166", b.Target)
	assert.Equal(t, "13", b.NeedRuns)
	assert.Equal(t, "15", b.NeedBalls)
	assert.Equal(t, "8.67", b.RequiredRunRate)

	require.Len(t, b.Batsmen, 2)
	assert.True(t, b.Batsmen[0].OnStrike)
	assert.False(t, b.Batsmen[1].OnStrike)
	assert.Equal(t, "148.89", b.Batsmen[0].StrikeRate)

	assert.Equal(t, "Pat Cummins", b.Bowler.Name)
	assert.Equal(t, "3.3", b.Bowler.Overs)

	require.Len(t, b.Balls, 6)
	assert.Equal(t, BallChip{Token: "6", Class: "ball-six", Color: models.ColorSix}, b.Balls[4])
	assert.Equal(t, BallChip{Token: "W", Class: "ball-wicket", Color: models.ColorWicket}, b.Balls[5])

	assert.True(t, b.ShowPartnership)
	assert.Equal(t, "56", b.PartnershipRuns)
	assert.Equal(t, "R. Sharma c Smith b Starc 45 (32)", b.LastWicket)
}

func TestNewBoard_NoChaseFields(t *testing.T) {
	m := models.DemoMatch()
	m.Target = nil
	m.NeedRuns = nil
	m.NeedBalls = nil
	m.Partnership = nil

	b := NewBoard(m)
	assert.False(t, b.ShowChase)
	assert.Empty(t, b.Target)
	assert.False(t, b.ShowPartnership)
}

func TestNewBoard_PartialChase(t *testing.T) {
	m := models.DemoMatch()
	m.NeedBalls = nil

	b := NewBoard(m)
	assert.True(t, b.ShowChase)
	assert.Equal(t, "-", b.NeedBalls)
}

func TestRenderBoard_Demo(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.BoardHTML(models.DemoMatch())
	require.NoError(t, err)

	for _, want := range []string{
		"India",
		"Australia",
		"178/4",
		"Target: 166",
		"Need 13 runs from 15 balls",
		"Virat Kohli",
		"Pat Cummins",
		"56 runs (34 balls)",
		"R. Sharma c Smith b Starc 45 (32)",
	} {
		assert.Contains(t, html, want)
	}
	assert.Equal(t, 1, strings.Count(html, "On Strike"))
}

func TestRenderBoard_StrikeMarkerFollowsFlag(t *testing.T) {
	r := newTestRenderer(t)

	m := models.DemoMatch()
	m.Batsmen[0].OnStrike = false
	html, err := r.BoardHTML(m)
	require.NoError(t, err)
	assert.NotContains(t, html, "On Strike")

	// ill-formed input is displayed as received
	m.Batsmen[0].OnStrike = true
	m.Batsmen[1].OnStrike = true
	html, err = r.BoardHTML(m)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(html, "On Strike"))
}

func TestRenderBoard_HidesChaseBanner(t *testing.T) {
	r := newTestRenderer(t)

	m := models.DemoMatch()
	m.Target = nil
	html, err := r.BoardHTML(m)
	require.NoError(t, err)
	assert.NotContains(t, html, "Target:")
	assert.NotContains(t, html, "Required Run Rate")
}

func TestRenderBoard_BallClasses(t *testing.T) {
	r := newTestRenderer(t)

	m := models.DemoMatch()
	m.RecentBalls = []models.BallToken{"6", "4", "W", ".", "2", "1lb"}
	html, err := r.BoardHTML(m)
	require.NoError(t, err)

	assert.Contains(t, html, `class="ball ball-six"`)
	assert.Contains(t, html, `class="ball ball-four"`)
	assert.Contains(t, html, `class="ball ball-wicket"`)
	assert.Contains(t, html, `class="ball ball-dot"`)
	assert.Equal(t, 2, strings.Count(html, `class="ball ball-run"`))
}

func TestRenderBoard_EscapesWriterText(t *testing.T) {
	r := newTestRenderer(t)

	m := models.DemoMatch()
	m.MatchTitle = `<script>alert(1)</script>`
	m.BattingTeam.Color = `red; background: url(javascript:alert(1))`
	html, err := r.BoardHTML(m)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "javascript:")
}

func TestRenderPage(t *testing.T) {
	r := newTestRenderer(t)
	now := time.Date(2026, 3, 14, 19, 30, 5, 0, time.UTC)

	page := r.NewPage(models.DemoMatch(), now)
	page.Origin = "demo"
	page.Revision = 3

	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(&buf, page))
	html := buf.String()

	assert.Contains(t, html, "<title>T20 International Match</title>")
	assert.Contains(t, html, "7:30:05 PM")
	assert.Contains(t, html, `data-revision="3"`)
	assert.Contains(t, html, "178/4")
	assert.Contains(t, html, ".ball-six { background: #9333ea; }")
	assert.NotContains(t, html, "Loading Match Data...")
}

func TestRenderPage_ClockInHeader(t *testing.T) {
	r := newTestRenderer(t)
	now := time.Date(2026, 3, 14, 19, 30, 5, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(&buf, r.NewPage(models.DemoMatch(), now)))
	html := buf.String()

	header := strings.Index(html, `<section class="header">`)
	clock := strings.Index(html, `<span id="clock" class="clock">7:30:05 PM</span>`)
	teams := strings.Index(html, `<section class="teams">`)
	require.NotEqual(t, -1, header)
	require.NotEqual(t, -1, clock)
	assert.True(t, header < clock && clock < teams, "clock belongs to the header")
	assert.Equal(t, 1, strings.Count(html, `id="clock"`))

	// pushed fragments carry an empty clock for the page to fill
	fragment, err := r.BoardHTML(models.DemoMatch())
	require.NoError(t, err)
	assert.Contains(t, fragment, `<span id="clock" class="clock"></span>`)
}

func TestRenderPage_Loading(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, r.RenderPage(&buf, r.NewPage(nil, time.Now())))
	assert.Contains(t, buf.String(), "Loading Match Data...")
	assert.NotContains(t, buf.String(), "India")
}

func TestFormatClock(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	r, err := NewRenderer(loc)
	require.NoError(t, err)

	base := time.Date(2026, 3, 14, 14, 0, 59, 0, time.UTC)
	assert.Equal(t, "7:30:59 PM", r.FormatClock(base))
	assert.Equal(t, "7:31:00 PM", r.FormatClock(base.Add(time.Second)))
	assert.Equal(t, "12:00:00 AM", r.FormatClock(time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)))
}
