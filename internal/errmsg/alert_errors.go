package errmsg

import "net/http"

var (
	AlertEmitFailed = NewStatusError(
		http.StatusBadGateway,
		"failed to submit event to alerting provider",
	)
	DeliveryNotFound = NewStatusError(
		http.StatusNotFound,
		"delivery not found",
	)
)
