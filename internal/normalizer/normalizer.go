// Package normalizer turns GitHub issues webhooks into incident events.
package normalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"issuebridge/internal/models"
)

// Header names and literals that make up the event contract.
const (
	EventHeader = "X-GitHub-Event"
	IssuesEvent = "issues"

	ActionOpened   = "opened"
	ActionReopened = "reopened"

	Source   = "GitHub"
	LinkText = "View In GitHub"
)

// SuppressReason explains why no event was produced.
type SuppressReason string

const (
	ReasonUnsupportedEvent SuppressReason = "unsupported_event"
	ReasonIgnoredAction    SuppressReason = "ignored_action"
)

// Emitter submits normalized events to the alerting provider.
type Emitter interface {
	EmitEventsV2(ctx context.Context, events []models.NormalizedEvent) error
}

// Outcome is the decision for a single delivery. Exactly one of Event and
// Reason is set.
type Outcome struct {
	Event     *models.NormalizedEvent
	Reason    SuppressReason
	EventType string
	Action    string
}

// Emitted reports whether the delivery produced an event.
func (o Outcome) Emitted() bool {
	return o.Event != nil
}

// EventType returns the value of the first X-GitHub-Event header, or "" when
// there is none.
func EventType(headers []models.Header) string {
	for _, h := range headers {
		if h.Name == EventHeader {
			return h.Value
		}
	}

	return ""
}

// Normalize decides whether req warrants an incident event and builds it.
// Suppression is reported through the Outcome; errors are reserved for
// payloads that cannot be read on the taken branch.
func Normalize(req models.InboundRequest, tc models.TriggerContext) (Outcome, error) {
	out := Outcome{EventType: EventType(req.Headers)}
	if out.EventType != IssuesEvent {
		out.Reason = ReasonUnsupportedEvent
		return out, nil
	}

	var payload issuesPayload
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	issue := payload.Issue
	if issue == nil {
		return Outcome{}, missing("issue")
	}
	if issue.ID == nil {
		return Outcome{}, missing("issue.id")
	}
	dedupKey := strconv.FormatInt(*issue.ID, 10)

	if payload.Action != nil {
		out.Action = *payload.Action
	}
	if out.Action != ActionOpened && out.Action != ActionReopened {
		out.Reason = ReasonIgnoredAction
		return out, nil
	}

	switch {
	case payload.Repository == nil || payload.Repository.FullName == nil:
		return Outcome{}, missing("repository.full_name")
	case issue.Title == nil:
		return Outcome{}, missing("issue.title")
	case issue.HTMLURL == nil:
		return Outcome{}, missing("issue.html_url")
	case !issue.Body.Set:
		return Outcome{}, missing("issue.body")
	case issue.User == nil || issue.User.Login == nil:
		return Outcome{}, missing("issue.user.login")
	}

	out.Event = &models.NormalizedEvent{
		EventAction: tc.TriggerAction,
		DedupKey:    dedupKey,
		Payload: models.EventPayload{
			// The double space after "Issue:" is part of the summary format.
			Summary:       "[" + *payload.Repository.FullName + "] Issue:  " + *issue.Title,
			Source:        Source,
			Severity:      tc.Severity,
			CustomDetails: issue.Body.Value + " (" + *issue.User.Login + ")",
		},
		Links: []models.EventLink{{
			Href: *issue.HTMLURL,
			Text: LinkText,
		}},
	}

	return out, nil
}

// Process normalizes req and, on the emit path only, hands the event to em in
// a single call.
func Process(ctx context.Context, req models.InboundRequest, tc models.TriggerContext, em Emitter) (Outcome, error) {
	out, err := Normalize(req, tc)
	if err != nil || !out.Emitted() {
		return out, err
	}

	if err := em.EmitEventsV2(ctx, []models.NormalizedEvent{*out.Event}); err != nil {
		return out, fmt.Errorf("%w: %w", ErrEmitFailed, err)
	}

	return out, nil
}
