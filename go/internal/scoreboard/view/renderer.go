package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/mcdev12/scorecast/go/internal/models"
)

// ClockLayout is the display clock format
const ClockLayout = "3:04:05 PM"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Page is the data for the full scoreboard document.
// A nil Board renders the loading screen.
type Page struct {
	Board    *Board
	Clock    string
	Origin   string
	Revision uint64
	Socket   string
}

// Renderer renders the scoreboard page and board fragment
type Renderer struct {
	tmpl     *template.Template
	location *time.Location
}

// NewRenderer parses the embedded templates. Clock values are shown in loc (local time if nil).
func NewRenderer(loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.Local
	}

	tmpl, err := template.New("scoreboard").
		Funcs(template.FuncMap{"ballStyles": ballStyles}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		tmpl:     tmpl,
		location: loc,
	}, nil
}

// NewPage builds page data for m at now. m may be nil before the first load.
func (r *Renderer) NewPage(m *models.MatchState, now time.Time) Page {
	page := Page{
		Clock:  r.FormatClock(now),
		Socket: "/ws/scoreboard",
	}
	if m != nil {
		board := NewBoard(m)
		board.Clock = page.Clock
		page.Board = &board
	}
	return page
}

// RenderPage writes the full HTML document
func (r *Renderer) RenderPage(w io.Writer, p Page) error {
	return r.tmpl.ExecuteTemplate(w, "page", p)
}

// RenderBoard writes the board fragment for m
func (r *Renderer) RenderBoard(w io.Writer, m *models.MatchState) error {
	return r.tmpl.ExecuteTemplate(w, "board", NewBoard(m))
}

// BoardHTML renders the board fragment for m to a string
func (r *Renderer) BoardHTML(m *models.MatchState) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderBoard(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatClock formats t for the header clock
func (r *Renderer) FormatClock(t time.Time) string {
	return t.In(r.location).Format(ClockLayout)
}

// Location returns the clock's time zone
func (r *Renderer) Location() *time.Location {
	return r.location
}

// ballStyles builds the ball chip rules from the token colour table
func ballStyles() template.CSS {
	tokens := []models.BallToken{models.BallSix, models.BallFour, models.BallWicket, models.BallDot, "1"}

	var sb strings.Builder
	for _, token := range tokens {
		fmt.Fprintf(&sb, ".%s { background: %s; }\n", models.BallClass(token), models.BallColor(token))
	}
	return template.CSS(sb.String())
}
