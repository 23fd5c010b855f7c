package services

import "robotics-event-api/packages/core/models"

// Notifier receives fully loaded matches after committed state changes.
type Notifier interface {
	MatchStatusChanged(match *models.Match, action string)
	ScoreUpdated(match *models.Match)
}

type nopNotifier struct{}

func (nopNotifier) MatchStatusChanged(*models.Match, string) {}
func (nopNotifier) ScoreUpdated(*models.Match)               {}

// NopNotifier drops every notification.
func NopNotifier() Notifier { return nopNotifier{} }
