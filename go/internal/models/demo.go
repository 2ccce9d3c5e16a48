package models

// DemoMatch returns the demonstration document shown while the store has no entry.
// Each call returns a fresh copy so callers may modify it.
func DemoMatch() *MatchState {
	return &MatchState{
		MatchTitle: "T20 International Match",
		Venue:      "Wankhede Stadium, Mumbai",
		MatchType:  "2nd Innings",
		Status:     "LIVE",

		BattingTeam: TeamState{
			Name:      "India",
			ShortName: "IND",
			Score:     "178",
			Wickets:   "4",
			Overs:     "17.3",
			Color:     "#0066cc",
		},
		BowlingTeam: TeamState{
			Name:      "Australia",
			ShortName: "AUS",
			Score:     "165",
			Wickets:   "8",
			Overs:     "20",
			Color:     "#FFD700",
		},

		Batsmen: []BatsmanState{
			{
				Name:       "Virat Kohli",
				Runs:       "67",
				Balls:      "45",
				Fours:      "7",
				Sixes:      "2",
				StrikeRate: "148.89",
				OnStrike:   true,
			},
			{
				Name:       "Shreyas Iyer",
				Runs:       "23",
				Balls:      "16",
				Fours:      "2",
				Sixes:      "1",
				StrikeRate: "143.75",
				OnStrike:   false,
			},
		},

		Bowler: BowlerState{
			Name:    "Pat Cummins",
			Overs:   "3.3",
			Maidens: "0",
			Runs:    "28",
			Wickets: "1",
			Economy: "8",
		},

		RecentBalls: []BallToken{"1", "4", ".", "2", "6", "W"},

		CurrentRunRate:  "10.23",
		RequiredRunRate: "8.67",
		Target:          FigureOf("166"),
		NeedRuns:        FigureOf("13"),
		NeedBalls:       FigureOf("15"),

		Partnership: &Partnership{
			Runs:  "56",
			Balls: "34",
		},
		LastWicket: "R. Sharma c Smith b Starc 45 (32)",
	}
}
