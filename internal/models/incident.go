package models

// TriggerContext carries the caller-chosen values copied verbatim into every
// normalized event.
type TriggerContext struct {
	TriggerAction string `json:"trigger_action" bson:"trigger_action"`
	Severity      string `json:"severity" bson:"severity"`
}

// NormalizedEvent is the incident event handed to the alerting provider.
type NormalizedEvent struct {
	EventAction string       `json:"event_action" bson:"event_action"`
	DedupKey    string       `json:"dedup_key" bson:"dedup_key"`
	Payload     EventPayload `json:"payload" bson:"payload"`
	Links       []EventLink  `json:"links" bson:"links"`
}

// EventPayload holds the human facing part of a NormalizedEvent.
type EventPayload struct {
	Summary       string `json:"summary" bson:"summary"`
	Source        string `json:"source" bson:"source"`
	Severity      string `json:"severity" bson:"severity"`
	CustomDetails string `json:"custom_details" bson:"custom_details"`
}

// EventLink points back at the GitHub resource that raised the event.
type EventLink struct {
	Href string `json:"href" bson:"href"`
	Text string `json:"text" bson:"text"`
}
