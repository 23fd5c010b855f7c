package models

type MatchType string

const (
	MatchTypeQualification MatchType = "qualification"
	MatchTypeElimination   MatchType = "elimination"
)

type MatchStatus string

const (
	MatchStatusUpcoming  MatchStatus = "upcoming"
	MatchStatusOngoing   MatchStatus = "ongoing"
	MatchStatusCompleted MatchStatus = "completed"
	MatchStatusCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusUpcoming, MatchStatusOngoing, MatchStatusCompleted, MatchStatusCancelled:
		return true
	}
	return false
}

// Final reports whether no more scores may be recorded against the match.
func (s MatchStatus) Final() bool {
	return s == MatchStatusCompleted || s == MatchStatusCancelled
}

type EliminationRound string

const (
	RoundSemifinal1           EliminationRound = "semifinal_1"
	RoundSemifinal2           EliminationRound = "semifinal_2"
	RoundFinal                EliminationRound = "final"
	RoundTiebreakerSemifinal1 EliminationRound = "tiebreaker_semifinal_1"
	RoundTiebreakerSemifinal2 EliminationRound = "tiebreaker_semifinal_2"
	RoundTiebreakerFinal      EliminationRound = "tiebreaker_final"
)

func (r EliminationRound) Valid() bool {
	switch r {
	case RoundSemifinal1, RoundSemifinal2, RoundFinal,
		RoundTiebreakerSemifinal1, RoundTiebreakerSemifinal2, RoundTiebreakerFinal:
		return true
	}
	return false
}

// Tiebreaker returns the round label used for an extra match played to
// settle a tied series in round r.
func (r EliminationRound) Tiebreaker() EliminationRound {
	switch r {
	case RoundSemifinal1, RoundTiebreakerSemifinal1:
		return RoundTiebreakerSemifinal1
	case RoundSemifinal2, RoundTiebreakerSemifinal2:
		return RoundTiebreakerSemifinal2
	case RoundFinal, RoundTiebreakerFinal:
		return RoundTiebreakerFinal
	}
	return RoundTiebreakerFinal
}

func (r EliminationRound) IsSemifinal() bool {
	switch r {
	case RoundSemifinal1, RoundSemifinal2:
		return true
	case RoundFinal, RoundTiebreakerSemifinal1, RoundTiebreakerSemifinal2, RoundTiebreakerFinal:
		return false
	}
	return false
}

type SeriesStatus string

const (
	SeriesStatusPending    SeriesStatus = "pending"
	SeriesStatusInProgress SeriesStatus = "in_progress"
	SeriesStatusCompleted  SeriesStatus = "completed"
)

// TargetKind says whether a score type applies to a single team or to a
// whole alliance.
type TargetKind string

const (
	TargetTeam     TargetKind = "team"
	TargetAlliance TargetKind = "alliance"
)

func (k TargetKind) Valid() bool {
	return k == TargetTeam || k == TargetAlliance
}
