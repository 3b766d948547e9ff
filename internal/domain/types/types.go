package types

// RideStatus is the lifecycle state of a ride.
type RideStatus string

func (s RideStatus) String() string {
	return string(s)
}

const (
	StatusRequested  RideStatus = "Requested"
	StatusAccepted   RideStatus = "Accepted"
	StatusInProgress RideStatus = "InProgress"
	StatusCompleted  RideStatus = "Completed"
	StatusCancelled  RideStatus = "Cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s RideStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ValidRideStatus reports whether s is a known lifecycle state.
func ValidRideStatus(s string) bool {
	switch RideStatus(s) {
	case StatusRequested, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// UserRole distinguishes the two subscriber kinds.
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RolePassenger UserRole = "passenger"
	RoleDriver    UserRole = "driver"
)

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r string) bool {
	return UserRole(r) == RolePassenger || UserRole(r) == RoleDriver
}

// RideType is the requested vehicle class.
type RideType string

const (
	RideTypeEconomy RideType = "economy"
	RideTypeComfort RideType = "comfort"
	RideTypePremium RideType = "premium"
)

// ValidRideType reports whether t is a known vehicle class.
func ValidRideType(t string) bool {
	switch RideType(t) {
	case RideTypeEconomy, RideTypeComfort, RideTypePremium:
		return true
	default:
		return false
	}
}

// DriverAvailability is the driver's willingness to take rides.
type DriverAvailability string

const (
	DriverAvailable   DriverAvailability = "available"
	DriverUnavailable DriverAvailability = "unavailable"
)

// ValidDriverAvailability reports whether a is a known availability value.
func ValidDriverAvailability(a string) bool {
	return DriverAvailability(a) == DriverAvailable || DriverAvailability(a) == DriverUnavailable
}
