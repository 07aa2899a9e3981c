package events

import "issuebridge/internal/models"

// targetDelivery marks events keyed by the X-GitHub-Delivery id.
const targetDelivery = "github_delivery"

// IssueEmitted records an incident event accepted by the alerting provider.
func (e *Emitter) IssueEmitted(deliveryID string, evt models.NormalizedEvent) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "github.issue.emitted",

		ActorRole: ActorGitHub,
		ActorID:   deliveryID,

		TargetType: targetDelivery,
		TargetID:   deliveryID,

		Props: map[string]any{
			"dedupKey":    evt.DedupKey,
			"eventAction": evt.EventAction,
			"summary":     evt.Payload.Summary,
			"severity":    evt.Payload.Severity,
		},
	})
}

// IssueSuppressed records a delivery that did not warrant an incident event.
func (e *Emitter) IssueSuppressed(deliveryID, eventType, action, reason string) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "github.issue.suppressed",

		ActorRole: ActorGitHub,
		ActorID:   deliveryID,

		TargetType: targetDelivery,
		TargetID:   deliveryID,

		Props: map[string]any{
			"event":  eventType,
			"action": action,
			"reason": reason,
		},
	})
}

// IssueRejected records a delivery whose payload could not be normalized.
func (e *Emitter) IssueRejected(deliveryID string, err error) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "github.issue.rejected",

		ActorRole: ActorGitHub,
		ActorID:   deliveryID,

		TargetType: targetDelivery,
		TargetID:   deliveryID,

		Props: map[string]any{
			"error": err.Error(),
		},
	})
}

// EmitFailed records a transport failure towards the alerting provider.
func (e *Emitter) EmitFailed(deliveryID, dedupKey string, err error) {
	if e == nil {
		return
	}

	e.Emit(models.Event{
		Action: "pagerduty.emit_failed",

		ActorRole: ActorSystem,
		ActorID:   ActorSystem,

		TargetType: targetDelivery,
		TargetID:   deliveryID,

		Props: map[string]any{
			"dedupKey": dedupKey,
			"error":    err.Error(),
		},
	})
}
