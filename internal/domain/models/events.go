package models

import (
	"github.com/zhandos-t/ridelink/internal/domain/types"
)

// SubscribeMessage is the only inbound WebSocket control message. A socket is
// anonymous until a valid subscribe arrives.
type SubscribeMessage struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
}

const SubscribeMessageType = "subscribe"

// RideEventMessage is the outbound push message. Built per broadcast and
// discarded, never persisted.
type RideEventMessage struct {
	Type        types.RideEventType `json:"type"`
	Ride        *Ride               `json:"ride"`
	CancelledBy types.UserRole      `json:"cancelledBy,omitempty"`
}

// TokenPair is the opaque credential pair issued by the identity provider.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
