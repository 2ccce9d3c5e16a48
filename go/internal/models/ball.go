package models

import (
	"encoding/json"
	"fmt"
)

// BallToken is the outcome of one delivery in the recent-balls strip:
// runs "0" to "6", "." for a dot ball, "W" for a wicket, or any extras label.
// Writers may store run counts as bare numbers; they decode to the same text.
type BallToken string

// UnmarshalJSON implements json.Unmarshaler
func (t *BallToken) UnmarshalJSON(data []byte) error {
	var f Figure
	if err := f.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("ball token must be a number or a string, got %s", data)
	}
	*t = BallToken(f)
	return nil
}

// MarshalJSON always writes the token as a string
func (t BallToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

const (
	BallSix    BallToken = "6"
	BallFour   BallToken = "4"
	BallWicket BallToken = "W"
	BallDot    BallToken = "."
)

// Ball chip colours
const (
	ColorSix     = "#9333ea"
	ColorFour    = "#2563eb"
	ColorWicket  = "#dc2626"
	ColorDot     = "#4b5563"
	ColorDefault = "#16a34a"
)

// BallColor maps a ball token to its chip colour. Unknown tokens get the default colour.
func BallColor(token BallToken) string {
	switch token {
	case BallSix:
		return ColorSix
	case BallFour:
		return ColorFour
	case BallWicket:
		return ColorWicket
	case BallDot:
		return ColorDot
	default:
		return ColorDefault
	}
}

// BallClass is the CSS class name used for a ball chip
func BallClass(token BallToken) string {
	switch token {
	case BallSix:
		return "ball-six"
	case BallFour:
		return "ball-four"
	case BallWicket:
		return "ball-wicket"
	case BallDot:
		return "ball-dot"
	default:
		return "ball-run"
	}
}
