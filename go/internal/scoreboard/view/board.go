package view

import "github.com/mcdev12/scorecast/go/internal/models"

// Board is the display model of one match document. Every value is a string
// formatted from the document as received; nothing is derived.
type Board struct {
	Title  string
	Venue  string
	Phase  string
	Status string
	Live   bool

	// Clock is only set for full-page renders
	Clock string

	Batting        TeamPanel
	Bowling        TeamPanel
	CurrentRunRate string

	ShowChase       bool
	Target          string
	NeedRuns        string
	NeedBalls       string
	RequiredRunRate string

	Batsmen []BatsmanPanel
	Bowler  BowlerPanel
	Balls   []BallChip

	ShowPartnership  bool
	PartnershipRuns  string
	PartnershipBalls string
	LastWicket       string
}

type TeamPanel struct {
	Name      string
	ShortName string
	Score     string
	Overs     string
	Color     string
}

type BatsmanPanel struct {
	Name       string
	Runs       string
	Balls      string
	Fours      string
	Sixes      string
	StrikeRate string
	OnStrike   bool
}

type BowlerPanel struct {
	Name    string
	Overs   string
	Maidens string
	Runs    string
	Wickets string
	Economy string
}

// BallChip is one token in the recent-balls strip
type BallChip struct {
	Token string
	Class string
	Color string
}

// NewBoard builds the display model for m
func NewBoard(m *models.MatchState) Board {
	b := Board{
		Title:          m.MatchTitle,
		Venue:          m.Venue,
		Phase:          m.MatchType,
		Status:         m.Status,
		Live:           m.IsLive(),
		Batting:        newTeamPanel(m.BattingTeam),
		Bowling:        newTeamPanel(m.BowlingTeam),
		CurrentRunRate: m.CurrentRunRate.String(),
		Bowler: BowlerPanel{
			Name:    m.Bowler.Name,
			Overs:   m.Bowler.Overs.String(),
			Maidens: m.Bowler.Maidens.Or("0"),
			Runs:    m.Bowler.Runs.Or("0"),
			Wickets: m.Bowler.Wickets.Or("0"),
			Economy: m.Bowler.Economy.String(),
		},
		LastWicket: m.LastWicket,
	}

	if m.HasChase() {
		b.ShowChase = true
		b.Target = optionalFigure(m.Target)
		b.NeedRuns = optionalFigure(m.NeedRuns)
		b.NeedBalls = optionalFigure(m.NeedBalls)
		b.RequiredRunRate = m.RequiredRunRate.String()
	}

	for _, bat := range m.Batsmen {
		b.Batsmen = append(b.Batsmen, BatsmanPanel{
			Name:       bat.Name,
			Runs:       bat.Runs.Or("0"),
			Balls:      bat.Balls.Or("0"),
			Fours:      bat.Fours.Or("0"),
			Sixes:      bat.Sixes.Or("0"),
			StrikeRate: bat.StrikeRate.String(),
			OnStrike:   bat.OnStrike,
		})
	}

	for _, token := range m.RecentBalls {
		b.Balls = append(b.Balls, BallChip{
			Token: string(token),
			Class: models.BallClass(token),
			Color: models.BallColor(token),
		})
	}

	if m.Partnership != nil {
		b.ShowPartnership = true
		b.PartnershipRuns = m.Partnership.Runs.Or("0")
		b.PartnershipBalls = m.Partnership.Balls.Or("0")
	}

	return b
}

func newTeamPanel(t models.TeamState) TeamPanel {
	return TeamPanel{
		Name:      t.Name,
		ShortName: t.ShortName,
		Score:     t.Score.Or("0") + "/" + t.Wickets.Or("0"),
		Overs:     t.Overs.String(),
		Color:     t.Color,
	}
}

func optionalFigure(v *models.Figure) string {
	if v == nil {
		return "-"
	}
	return v.Or("-")
}
