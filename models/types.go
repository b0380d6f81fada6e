// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Category constants
const (
	CategoryKing  = "king"
	CategoryQueen = "queen"
)

// Session state constants (derived from the settings row, never stored)
const (
	StateIdle    = "idle"
	StateRunning = "running"
	StateExpired = "expired"
)

// Admin settings actions
const (
	ActionStart  = "start"
	ActionStop   = "stop"
	ActionReveal = "reveal"
	ActionReset  = "reset"
)

// SettingsID is the fixed id of the singleton settings row.
const SettingsID = "00000000-0000-0000-0000-000000000001"

// Request types

type LoginRequest struct {
	Password string `json:"password"`
}

type CreateCandidateRequest struct {
	Name      string `json:"name"`
	PhotoURL  string `json:"photo_url"`
	Category  string `json:"category"`
	GroupName string `json:"group_name"`
}

// UpdateCandidateRequest patches only the fields that are present.
type UpdateCandidateRequest struct {
	ID        string  `json:"id"`
	Name      *string `json:"name,omitempty"`
	PhotoURL  *string `json:"photo_url,omitempty"`
	Category  *string `json:"category,omitempty"`
	GroupName *string `json:"group_name,omitempty"`
}

type SettingsActionRequest struct {
	Action       string `json:"action"`
	TimerSeconds int    `json:"timerSeconds,omitempty"`
}

type SubmitVoteRequest struct {
	VoterID     string `json:"voter_id"`
	CandidateID string `json:"candidate_id"`
}

// Response types

type LoginResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type CandidateResponse struct {
	Candidate Candidate `json:"candidate"`
}

type CandidateListResponse struct {
	Candidates []Candidate `json:"candidates"`
}

type UploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type SubmitVoteResponse struct {
	Success       bool   `json:"success"`
	AlreadyVoted  bool   `json:"already_voted"`
	CandidateName string `json:"candidate_name,omitempty"`
	Category      string `json:"category,omitempty"`
	NextCategory  string `json:"next_category,omitempty"`
	Message       string `json:"message,omitempty"`
}

type VoterStatusResponse struct {
	VoterID    string  `json:"voter_id"`
	KingVoted  *string `json:"king_voted"`
	QueenVoted *string `json:"queen_voted"`
	Degraded   bool    `json:"degraded,omitempty"`
}

type SessionResponse struct {
	Settings         Settings `json:"settings"`
	State            string   `json:"state"`
	RemainingSeconds int      `json:"remaining_seconds"`
}

type TallyResponse struct {
	Counts     []VoteCount `json:"counts"`
	Winners    Winners     `json:"winners"`
	TotalVotes int         `json:"total_votes"`
}

// Domain types

type Candidate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PhotoURL  *string   `json:"photo_url"`
	Category  string    `json:"category"`
	GroupName string    `json:"group_name"`
	CreatedAt time.Time `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"-"` // Never expose in JSON
	CandidateID string    `json:"candidate_id"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type Settings struct {
	ID              string     `json:"id"`
	TimerSeconds    int        `json:"timer_seconds"`
	TimerEndAt      *time.Time `json:"timer_end_at"`
	VotingActive    bool       `json:"voting_active"`
	WinnersRevealed bool       `json:"winners_revealed"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// VoteCount is a candidate enriched with its live vote total.
type VoteCount struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	PhotoURL    *string `json:"photo_url"`
	Category    string  `json:"category"`
	GroupName   string  `json:"group_name"`
	VoteCount   int     `json:"vote_count"`
}

type Winners struct {
	King  *VoteCount `json:"king"`
	Queen *VoteCount `json:"queen"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ValidCategory reports whether s is one of the two election tracks.
func ValidCategory(s string) bool {
	return s == CategoryKing || s == CategoryQueen
}

// NextCategory returns the category a voter advances to after voting in c.
func NextCategory(c string) string {
	if c == CategoryKing {
		return CategoryQueen
	}
	return "complete"
}
