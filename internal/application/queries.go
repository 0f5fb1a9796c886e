package application

import (
	"time"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/google/uuid"
)

type SessionStatus struct {
	ID         uuid.UUID
	Banner     domain.BannerID
	ClientName string
	Station    string
	Equipment  []string
	StartedAt  time.Time
	EndsAt     time.Time
	Renewable  bool
	Overdue    bool
	TimerText  string
}

type EntryStatus struct {
	Position         int
	Banner           domain.BannerID
	ClientName       string
	Station          string
	Equipment        []string
	EnqueuedAt       time.Time
	EstimatedReadyAt time.Time
	Admissible       bool
	WaitText         string
}

type Board struct {
	Now       time.Time
	Stations  []domain.PoolStatus
	Equipment []domain.PoolStatus
	Sessions  []SessionStatus
	Waitlist  []EntryStatus
	Notices   []domain.Notice
}

func sessionStatus(s *domain.Session, renewable bool, now time.Time) SessionStatus {
	return SessionStatus{
		ID:         s.ID,
		Banner:     s.Banner(),
		ClientName: s.Request.ClientName(),
		Station:    s.Station(),
		Equipment:  s.Request.Equipment(),
		StartedAt:  s.StartedAt,
		EndsAt:     s.EndsAt,
		Renewable:  renewable,
		Overdue:    s.Overdue(now),
		TimerText:  s.TimerText(now),
	}
}

func entryStatus(e *domain.WaitlistEntry, position int, now time.Time) EntryStatus {
	return EntryStatus{
		Position:         position,
		Banner:           e.Banner(),
		ClientName:       e.Request.ClientName(),
		Station:          e.Station(),
		Equipment:        e.Request.Equipment(),
		EnqueuedAt:       e.EnqueuedAt,
		EstimatedReadyAt: e.EstimatedReadyAt,
		Admissible:       e.Admissible,
		WaitText:         e.WaitText(now),
	}
}
