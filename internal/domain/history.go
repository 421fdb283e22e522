package domain

import "time"

// InvocationRecord captures one completed CLI invocation for the history store.
type InvocationRecord struct {
	Timestamp  time.Time
	Command    string
	Query      string
	Status     string
	KeyIndex   int
	CacheHit   bool
	DurationMS int64
}

// RequestLogEntry is one line of the upstream request log.
type RequestLogEntry struct {
	TS     time.Time `json:"ts"`
	Key    string    `json:"key"`
	Cmd    string    `json:"cmd"`
	Status int       `json:"status"`
}
