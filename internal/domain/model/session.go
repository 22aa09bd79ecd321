package model

import "time"

// SessionState enumerates the operator authentication states.
type SessionState int

const (
	SessionAnonymous SessionState = iota
	SessionAwaitingPassword
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionAwaitingPassword:
		return "awaiting_password"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// OperatorSession is a point-in-time snapshot of one operator's session.
// PendingTarget is set only while awaiting a password, Selected only once
// authenticated. ExpiresAt bounds the password prompt; zero otherwise.
type OperatorSession struct {
	OperatorID    int64
	State         SessionState
	PendingTarget *int64
	Selected      *int64
	ExpiresAt     time.Time
}
