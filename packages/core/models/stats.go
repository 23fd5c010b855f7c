package models

type Stats struct {
	TotalTeams       int64  `json:"total_teams"`
	TotalMatches     int64  `json:"total_matches"`
	CompletedMatches int64  `json:"completed_matches"`
	UpcomingMatches  int64  `json:"upcoming_matches"`
	TotalScores      int64  `json:"total_scores"`
	OngoingMatch     *Match `json:"ongoing_match"`
}

// CompetitionTiming is the read-only match clock configuration, in seconds.
type CompetitionTiming struct {
	PreMatchCountdown        int `json:"pre_match_countdown"`
	Autonomous               int `json:"autonomous"`
	Transition               int `json:"transition"`
	Teleop                   int `json:"teleop"`
	EndgameWarning           int `json:"endgame_warning"`
	ControllersWarningOffset int `json:"controllers_warning_offset"`
	TotalMatch               int `json:"total_match"`
	TotalWithCountdown       int `json:"total_with_countdown"`
}

type CompetitionSettings struct {
	Timing               CompetitionTiming `json:"timing"`
	AutoEndAfterSeconds  int               `json:"auto_end_after_seconds"`
	MatchIntervalMinutes int               `json:"match_interval_minutes"`
}
