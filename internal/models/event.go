package models

import "time"

// Level is the severity of a log event.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarn    Level = "WARN"
	LevelError   Level = "ERROR"
	LevelSuccess Level = "SUCCESS"
)

// Module names the part of the daemon that emitted a log event.
type Module string

const (
	ModuleChecker Module = "CHECKER"
	ModuleDB      Module = "DB"
	ModuleAPI     Module = "API"
	ModuleSystem  Module = "SYSTEM"
)

// Status is the lifecycle state reported in Stats.
type Status string

const (
	StatusIdle    Status = "IDLE"
	StatusPolling Status = "POLLING"
	StatusError   Status = "ERROR"
)

// LogEvent is a single entry of the activity log. Events are immutable once
// appended.
type LogEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Module    Module    `json:"module"`
	Message   string    `json:"message"`
}

// Stats is the dashboard snapshot recomputed after every cycle.
type Stats struct {
	TotalModels     int       `json:"totalModels"`
	LastCheck       time.Time `json:"lastCheck"`
	Status          Status    `json:"status"`
	DBSize          string    `json:"dbSize"`
	APIRequests     int       `json:"apiRequests"`
	CurrentActivity string    `json:"currentActivity,omitempty"`
}

// Cycle outcomes recorded in CycleSummary.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// CycleSummary records an audit trail of each discovery cycle.
type CycleSummary struct {
	ID             int64     `json:"id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Provider       string    `json:"provider"`
	Outcome        string    `json:"outcome"`
	Discovered     int       `json:"discovered"`
	CollectionSize int       `json:"collection_size"`
	Error          string    `json:"error,omitempty"`
}
