package auth

import "time"

// SetNow overrides the service clock from external test packages.
func (s *Service) SetNow(now func() time.Time) { s.now = now }
