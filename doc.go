// Package issuebridge forwards GitHub "issues" webhook deliveries to the
// PagerDuty Events API v2.
//
// The server lives in cmd/server. Requests enter under /issuebridge, are
// checked against the webhook secret and normalized by internal/normalizer;
// opened and reopened issues become trigger events, everything else is
// acknowledged and dropped.
package issuebridge
