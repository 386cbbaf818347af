package entity

import "github.com/google/uuid"

// Service is one entry of a business's catalog. Name is canonical and
// looked up case-insensitively.
type Service struct {
	BaseNoDelete
	BusinessID  uuid.UUID `db:"business_id"`
	Name        string    `db:"name"`
	Price       float64   `db:"price"`
	DurationMin int       `db:"duration_min"`
}

// ServiceInfo is the price and length quoted in a confirmation.
type ServiceInfo struct {
	Price       float64
	DurationMin int
}

// DefaultServiceInfo applies when the catalog has no matching entry.
var DefaultServiceInfo = ServiceInfo{Price: 0.0, DurationMin: 45}

func (s *Service) Info() ServiceInfo {
	if s == nil {
		return DefaultServiceInfo
	}
	info := ServiceInfo{Price: s.Price, DurationMin: s.DurationMin}
	if info.DurationMin <= 0 {
		info.DurationMin = DefaultServiceInfo.DurationMin
	}
	return info
}
