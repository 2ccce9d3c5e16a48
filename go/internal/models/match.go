package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedMatch is returned when a stored match document cannot be decoded
var ErrMalformedMatch = errors.New("malformed match document")

// MatchState is the scoreboard document written by the admin panel.
// Field names follow the admin panel's JSON so documents round-trip unchanged.
type MatchState struct {
	MatchTitle string `json:"matchTitle"`
	Venue      string `json:"venue"`
	MatchType  string `json:"matchType"`
	Status     string `json:"status"`

	BattingTeam TeamState `json:"battingTeam"`
	BowlingTeam TeamState `json:"bowlingTeam"`

	Batsmen     []BatsmanState `json:"batsmen"`
	Bowler      BowlerState    `json:"bowler"`
	RecentBalls []BallToken    `json:"recentBalls"`

	CurrentRunRate  Figure  `json:"currentRunRate,omitempty"`
	RequiredRunRate Figure  `json:"requiredRunRate,omitempty"`
	Target          *Figure `json:"target,omitempty"`
	NeedRuns        *Figure `json:"needRuns,omitempty"`
	NeedBalls       *Figure `json:"needBalls,omitempty"`

	Partnership *Partnership `json:"partnership,omitempty"`
	LastWicket  string       `json:"lastWicket,omitempty"`
}

// TeamState is one side's innings summary
type TeamState struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Score     Figure `json:"score"`
	Wickets   Figure `json:"wickets"`
	Overs     Figure `json:"overs"`
	Color     string `json:"color"`
}

// BatsmanState is a batsman at the crease
type BatsmanState struct {
	Name       string `json:"name"`
	Runs       Figure `json:"runs"`
	Balls      Figure `json:"balls"`
	Fours      Figure `json:"fours"`
	Sixes      Figure `json:"sixes"`
	StrikeRate Figure `json:"strikeRate"`
	OnStrike   bool   `json:"onStrike"`
}

// BowlerState is the bowler currently in the attack
type BowlerState struct {
	Name    string `json:"name"`
	Overs   Figure `json:"overs"`
	Maidens Figure `json:"maidens"`
	Runs    Figure `json:"runs"`
	Wickets Figure `json:"wickets"`
	Economy Figure `json:"economy"`
}

// Partnership is the stand between the two current batsmen
type Partnership struct {
	Runs  Figure `json:"runs"`
	Balls Figure `json:"balls"`
}

// IsLive reports whether the status label marks the match as live
func (m *MatchState) IsLive() bool {
	return m.Status == "LIVE"
}

// HasChase reports whether the document carries chase fields.
// The target banner is only shown when it does.
func (m *MatchState) HasChase() bool {
	return m.Target != nil
}

// OnStrikeCount returns how many batsmen are flagged on strike
func (m *MatchState) OnStrikeCount() int {
	count := 0
	for _, b := range m.Batsmen {
		if b.OnStrike {
			count++
		}
	}
	return count
}

// StrikeConflict reports whether more than one batsman is flagged on strike.
// Such documents are ill-formed; they are displayed as received.
func (m *MatchState) StrikeConflict() bool {
	return m.OnStrikeCount() > 1
}

// DecodeMatchState decodes a stored match document.
// No schema validation is done: figures may be numbers or strings and are kept
// as written. Only JSON syntax errors and structural mismatches (an object where
// a list belongs, say) make a document malformed.
func DecodeMatchState(data []byte) (*MatchState, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var m MatchState
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMatch, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedMatch)
	}
	return &m, nil
}
