package models

import "time"

// Sitter is the engine's read model of a sitter profile: published service
// prices and push targets. Profile editing lives outside this service.
type Sitter struct {
	ID        string                `bson:"id" json:"id"`
	Name      string                `bson:"name" json:"name"`
	Pricing   map[ServiceType]int64 `bson:"pricing" json:"pricing"` // unit price in minor-currency units
	FCMToken  string                `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time             `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time             `bson:"updated_at" json:"updatedAt"`
}

// UnitPrice returns the published unit price for a service, 0 if unset.
func (s *Sitter) UnitPrice(t ServiceType) int64 {
	if s.Pricing == nil {
		return 0
	}
	return s.Pricing[t]
}

// Owner is the engine's read model of a pet owner.
type Owner struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	FCMToken string `bson:"fcm_token,omitempty" json:"-"`
}
