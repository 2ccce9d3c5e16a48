package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBallColor(t *testing.T) {
	tests := []struct {
		token BallToken
		color string
		class string
	}{
		{"6", ColorSix, "ball-six"},
		{"4", ColorFour, "ball-four"},
		{"W", ColorWicket, "ball-wicket"},
		{".", ColorDot, "ball-dot"},
		{"0", ColorDefault, "ball-run"},
		{"1", ColorDefault, "ball-run"},
		{"2", ColorDefault, "ball-run"},
		{"3", ColorDefault, "ball-run"},
		{"5", ColorDefault, "ball-run"},
		{"wd", ColorDefault, "ball-run"},
		{"w", ColorDefault, "ball-run"},
		{"", ColorDefault, "ball-run"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.color, BallColor(tt.token), "color for %q", tt.token)
		assert.Equal(t, tt.class, BallClass(tt.token), "class for %q", tt.token)
	}
}

func TestBallColor_DistinctOutcomes(t *testing.T) {
	seen := map[string]BallToken{}
	for _, token := range []BallToken{BallSix, BallFour, BallWicket, BallDot, "1"} {
		color := BallColor(token)
		prev, dup := seen[color]
		assert.False(t, dup, "%q and %q share colour %s", prev, token, color)
		seen[color] = token
	}
}
