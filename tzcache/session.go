package tzcache

import "github.com/ngrash/go-localtime/zone"

// Session is the convenience tier: each conversion returns a pointer to
// storage owned by the Session and overwritten by its next conversion in
// the same zone. A Session must not be shared between goroutines.
type Session struct {
	c     *Cache
	local *zone.Civil
	utc   *zone.Civil
}

// Session returns a new Session over c.
func (c *Cache) Session() *Session {
	return &Session{c: c}
}

// Local converts t in the local zone.
func (s *Session) Local(t int64) (*zone.Civil, error) {
	if s.local == nil {
		s.local = new(zone.Civil)
	}
	if err := s.c.CivilInto(t, SelectLocal, s.local); err != nil {
		return nil, err
	}
	return s.local, nil
}

// UTC converts t in the UTC zone.
func (s *Session) UTC(t int64) (*zone.Civil, error) {
	if s.utc == nil {
		s.utc = new(zone.Civil)
	}
	if err := s.c.CivilInto(t, SelectUTC, s.utc); err != nil {
		return nil, err
	}
	return s.utc, nil
}
