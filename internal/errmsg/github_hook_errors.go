package errmsg

import "net/http"

// GitHub webhook specific StatusError helpers surfaced by the handler.
var (
	GitHubSecretNotConfigured = NewStatusError(http.StatusInternalServerError, "webhook secret not configured")
	GitHubSignatureMissing    = NewStatusError(http.StatusBadRequest, "missing X-Hub-Signature-256 header")
	GitHubSignatureInvalid    = NewStatusError(http.StatusUnauthorized, "invalid webhook signature")
	GitHubDeliveryMissing     = NewStatusError(http.StatusBadRequest, "missing X-GitHub-Delivery header")
	GitHubInvalidPayload      = NewStatusError(http.StatusBadRequest, "invalid webhook payload")
)

// GitHubMissingField reports the payload path the issue event lacked.
func GitHubMissingField(path string) StatusError {
	return NewStatusError(
		http.StatusUnprocessableEntity,
		"missing required field: "+path,
	)
}
