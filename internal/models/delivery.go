package models

import "time"

// DeliveryStatus is the terminal state recorded for a webhook delivery.
type DeliveryStatus string

const (
	DeliveryEmitted    DeliveryStatus = "emitted"
	DeliverySuppressed DeliveryStatus = "suppressed"
	DeliveryRejected   DeliveryStatus = "rejected"
	DeliveryFailed     DeliveryStatus = "failed"
)

// Delivery is the receipt kept for one X-GitHub-Delivery.
type Delivery struct {
	ID         string         `json:"id"`
	Event      string         `json:"event"`
	Action     string         `json:"action,omitempty"`
	Status     DeliveryStatus `json:"status"`
	Reason     string         `json:"reason,omitempty"`
	DedupKey   string         `json:"dedupKey,omitempty"`
	ReceivedAt time.Time      `json:"receivedAt"`
}
