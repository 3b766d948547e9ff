package types

// RideEventType tags an outbound ride event message.
type RideEventType string

func (t RideEventType) String() string {
	return string(t)
}

const (
	EventNewRideRequest RideEventType = "new_ride_request"
	EventRideAccepted   RideEventType = "ride_accepted"
	EventRideStarted    RideEventType = "ride_started"
	EventRideCompleted  RideEventType = "ride_completed"
	EventRideCancelled  RideEventType = "ride_cancelled"
	EventRideUpdated    RideEventType = "ride_updated"
)
