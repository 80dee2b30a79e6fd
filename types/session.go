package types

import (
	"time"

	"github.com/hupe1980/colblock/block"
)

// Session is a block.Session with a fixed time zone and locale.
type Session struct {
	zone   *time.Location
	locale string
}

var _ block.Session = (*Session)(nil)

// NewSession returns a session rendering times in zone. A nil zone selects
// UTC and an empty locale selects "en-US".
func NewSession(zone *time.Location, locale string) *Session {
	if zone == nil {
		zone = time.UTC
	}
	if locale == "" {
		locale = "en-US"
	}
	return &Session{zone: zone, locale: locale}
}

// DefaultSession returns a UTC, en-US session.
func DefaultSession() *Session { return NewSession(nil, "") }

func (s *Session) TimeZone() *time.Location { return s.zone }

func (s *Session) Locale() string { return s.locale }
