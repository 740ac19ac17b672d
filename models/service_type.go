package models

// ServiceType identifies a sitter service offering.
type ServiceType string

const (
	ServiceBoarding     ServiceType = "boarding"
	ServiceHouseSitting ServiceType = "house_sitting"
	ServiceWalking      ServiceType = "walking"
	ServiceDropIn       ServiceType = "drop_in"
)

// IsValidServiceType reports whether t is a known service type.
func IsValidServiceType(t ServiceType) bool {
	switch t {
	case ServiceBoarding, ServiceHouseSitting, ServiceWalking, ServiceDropIn:
		return true
	}
	return false
}

// IsDailyService reports whether the service is priced and scheduled per
// whole day. Hourly services are priced per half-hour-rounded duration.
func IsDailyService(t ServiceType) bool {
	return t == ServiceBoarding || t == ServiceHouseSitting
}
