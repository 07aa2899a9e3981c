package normalizer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"issuebridge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTrigger = models.TriggerContext{
	TriggerAction: "trigger",
	Severity:      "critical",
}

// recordingEmitter counts EmitEventsV2 calls and keeps the last batch.
type recordingEmitter struct {
	calls int
	last  []models.NormalizedEvent
	err   error
}

func (r *recordingEmitter) EmitEventsV2(_ context.Context, events []models.NormalizedEvent) error {
	r.calls++
	r.last = events
	return r.err
}

func issuesRequest(t *testing.T, eventType string, body map[string]any) models.InboundRequest {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	return models.InboundRequest{
		Headers: []models.Header{
			{Name: "Content-Type", Value: "application/json"},
			{Name: EventHeader, Value: eventType},
		},
		Body: encoded,
	}
}

func issueBody(action string) map[string]any {
	return map[string]any{
		"action": action,
		"issue": map[string]any{
			"id":       42,
			"title":    "Bug",
			"html_url": "https://x/42",
			"body":     "desc",
			"user":     map[string]any{"login": "bob"},
		},
		"repository": map[string]any{"full_name": "org/repo"},
	}
}

func TestEventTypeFirstMatch(t *testing.T) {
	headers := []models.Header{
		{Name: "X-GitHub-Delivery", Value: "d-1"},
		{Name: EventHeader, Value: "issues"},
		{Name: EventHeader, Value: "push"},
	}
	require.Equal(t, "issues", EventType(headers))
}

func TestEventTypeAbsent(t *testing.T) {
	require.Equal(t, "", EventType(nil))
	require.Equal(t, "", EventType([]models.Header{{Name: "x-github-event", Value: "issues"}}))
}

func TestScenarioAOpened(t *testing.T) {
	em := &recordingEmitter{}
	out, err := Process(context.Background(), issuesRequest(t, "issues", issueBody("opened")), testTrigger, em)
	require.NoError(t, err)
	require.True(t, out.Emitted())
	require.Equal(t, 1, em.calls)
	require.Len(t, em.last, 1)

	encoded, err := json.Marshal(em.last[0])
	require.NoError(t, err)
	require.JSONEq(t, `{
		"event_action": "trigger",
		"dedup_key": "42",
		"payload": {
			"summary": "[org/repo] Issue:  Bug",
			"source": "GitHub",
			"severity": "critical",
			"custom_details": "desc (bob)"
		},
		"links": [{"href": "https://x/42", "text": "View In GitHub"}]
	}`, string(encoded))
}

func TestScenarioBClosedSuppressed(t *testing.T) {
	em := &recordingEmitter{}
	out, err := Process(context.Background(), issuesRequest(t, "issues", issueBody("closed")), testTrigger, em)
	require.NoError(t, err)
	require.False(t, out.Emitted())
	require.Equal(t, ReasonIgnoredAction, out.Reason)
	require.Equal(t, "closed", out.Action)
	require.Zero(t, em.calls)
}

func TestScenarioCOtherEventIgnoresBody(t *testing.T) {
	em := &recordingEmitter{}
	req := models.InboundRequest{
		Headers: []models.Header{{Name: EventHeader, Value: "pull_request"}},
		Body:    []byte("this is not json"),
	}

	out, err := Process(context.Background(), req, testTrigger, em)
	require.NoError(t, err)
	require.False(t, out.Emitted())
	require.Equal(t, ReasonUnsupportedEvent, out.Reason)
	require.Equal(t, "pull_request", out.EventType)
	require.Zero(t, em.calls)
}

func TestMissingHeaderSuppressed(t *testing.T) {
	em := &recordingEmitter{}
	req := models.InboundRequest{Body: []byte(`{"action":"opened"}`)}

	out, err := Process(context.Background(), req, testTrigger, em)
	require.NoError(t, err)
	require.Equal(t, ReasonUnsupportedEvent, out.Reason)
	require.Empty(t, out.EventType)
	require.Zero(t, em.calls)
}

func TestEventTypeIsCaseSensitive(t *testing.T) {
	out, err := Normalize(issuesRequest(t, "Issues", issueBody("opened")), testTrigger)
	require.NoError(t, err)
	require.Equal(t, ReasonUnsupportedEvent, out.Reason)
}

func TestScenarioDReopenedMatchesOpened(t *testing.T) {
	opened, err := Normalize(issuesRequest(t, "issues", issueBody("opened")), testTrigger)
	require.NoError(t, err)

	reopened, err := Normalize(issuesRequest(t, "issues", issueBody("reopened")), testTrigger)
	require.NoError(t, err)

	require.True(t, reopened.Emitted())
	require.Equal(t, *opened.Event, *reopened.Event)
	require.Equal(t, "[org/repo] Issue:  Bug", reopened.Event.Payload.Summary)
}

func TestOtherActionsSuppressed(t *testing.T) {
	for _, action := range []string{"closed", "edited", "assigned", "labeled", "deleted", ""} {
		t.Run(action, func(t *testing.T) {
			out, err := Normalize(issuesRequest(t, "issues", issueBody(action)), testTrigger)
			require.NoError(t, err)
			assert.False(t, out.Emitted())
			assert.Equal(t, ReasonIgnoredAction, out.Reason)
		})
	}
}

func TestDedupKeyFollowsIssueID(t *testing.T) {
	body := issueBody("opened")
	body["issue"].(map[string]any)["id"] = int64(1234567890123)
	body["repository"] = map[string]any{"full_name": "another/repo"}

	out, err := Normalize(issuesRequest(t, "issues", body), testTrigger)
	require.NoError(t, err)
	require.Equal(t, "1234567890123", out.Event.DedupKey)
}

func TestTriggerContextPassThrough(t *testing.T) {
	tc := models.TriggerContext{TriggerAction: "acknowledge", Severity: "warning"}

	out, err := Normalize(issuesRequest(t, "issues", issueBody("opened")), tc)
	require.NoError(t, err)
	require.Equal(t, "acknowledge", out.Event.EventAction)
	require.Equal(t, "warning", out.Event.Payload.Severity)
	require.Equal(t, Source, out.Event.Payload.Source)
	require.Equal(t, LinkText, out.Event.Links[0].Text)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	req := issuesRequest(t, "issues", issueBody("opened"))

	first, err := Normalize(req, testTrigger)
	require.NoError(t, err)
	second, err := Normalize(req, testTrigger)
	require.NoError(t, err)

	a, err := json.Marshal(first.Event)
	require.NoError(t, err)
	b, err := json.Marshal(second.Event)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		action string
		mutate func(body map[string]any)
		path   string
	}{
		{"issue", "opened", func(b map[string]any) { delete(b, "issue") }, "issue"},
		{"issue id on closed", "closed", func(b map[string]any) { delete(b["issue"].(map[string]any), "id") }, "issue.id"},
		{"repository", "opened", func(b map[string]any) { delete(b, "repository") }, "repository.full_name"},
		{"full name", "opened", func(b map[string]any) { b["repository"] = map[string]any{} }, "repository.full_name"},
		{"title", "opened", func(b map[string]any) { delete(b["issue"].(map[string]any), "title") }, "issue.title"},
		{"html url", "reopened", func(b map[string]any) { delete(b["issue"].(map[string]any), "html_url") }, "issue.html_url"},
		{"body", "opened", func(b map[string]any) { delete(b["issue"].(map[string]any), "body") }, "issue.body"},
		{"user", "opened", func(b map[string]any) { delete(b["issue"].(map[string]any), "user") }, "issue.user.login"},
		{"login", "opened", func(b map[string]any) { b["issue"].(map[string]any)["user"] = map[string]any{} }, "issue.user.login"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := issueBody(tc.action)
			tc.mutate(body)

			em := &recordingEmitter{}
			out, err := Process(context.Background(), issuesRequest(t, "issues", body), testTrigger, em)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMissingField)

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			require.Equal(t, tc.path, fe.Path)
			require.Nil(t, out.Event)
			require.Zero(t, em.calls)
		})
	}
}

func TestClosedWithoutRepositoryIsNotAFault(t *testing.T) {
	body := issueBody("closed")
	delete(body, "repository")
	delete(body["issue"].(map[string]any), "user")

	out, err := Normalize(issuesRequest(t, "issues", body), testTrigger)
	require.NoError(t, err)
	require.Equal(t, ReasonIgnoredAction, out.Reason)
}

func TestNullBodyIsRenderedAsText(t *testing.T) {
	body := issueBody("opened")
	body["issue"].(map[string]any)["body"] = nil

	em := &recordingEmitter{}
	out, err := Process(context.Background(), issuesRequest(t, "issues", body), testTrigger, em)
	require.NoError(t, err)
	require.True(t, out.Emitted())
	require.Equal(t, "null (bob)", out.Event.Payload.CustomDetails)
	require.Equal(t, 1, em.calls)
}

func TestUnreadFieldsAreNotValidated(t *testing.T) {
	cases := []struct {
		name    string
		action  string
		mutate  func(body map[string]any)
		emitted bool
	}{
		{"sender on opened", "opened", func(b map[string]any) { b["sender"] = "ghost" }, true},
		{"labels on opened", "opened", func(b map[string]any) { b["issue"].(map[string]any)["labels"] = "bug" }, true},
		{"repository id on closed", "closed", func(b map[string]any) { b["repository"].(map[string]any)["id"] = "abc" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := issueBody(tc.action)
			tc.mutate(body)

			em := &recordingEmitter{}
			out, err := Process(context.Background(), issuesRequest(t, "issues", body), testTrigger, em)
			require.NoError(t, err)
			require.Equal(t, tc.emitted, out.Emitted())
			if tc.emitted {
				require.Equal(t, 1, em.calls)
				require.Equal(t, "42", out.Event.DedupKey)
			} else {
				require.Equal(t, ReasonIgnoredAction, out.Reason)
				require.Zero(t, em.calls)
			}
		})
	}
}

func TestMalformedPayload(t *testing.T) {
	req := models.InboundRequest{
		Headers: []models.Header{{Name: EventHeader, Value: "issues"}},
		Body:    []byte(`{"action":"opened","issue":{"id":"forty-two"}}`),
	}

	em := &recordingEmitter{}
	_, err := Process(context.Background(), req, testTrigger, em)
	require.ErrorIs(t, err, ErrMalformedPayload)
	require.Zero(t, em.calls)
}

func TestEmitFailureIsWrapped(t *testing.T) {
	upstream := errors.New("pagerduty unavailable")
	em := &recordingEmitter{err: upstream}

	out, err := Process(context.Background(), issuesRequest(t, "issues", issueBody("opened")), testTrigger, em)
	require.ErrorIs(t, err, ErrEmitFailed)
	require.ErrorIs(t, err, upstream)
	require.Equal(t, 1, em.calls)
	require.True(t, out.Emitted())
}
