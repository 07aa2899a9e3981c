package githubhooks

import (
	"context"
	"errors"
	"strings"
	"time"

	"issuebridge/internal/errmsg"
	"issuebridge/internal/events"
	"issuebridge/internal/logger"
	"issuebridge/internal/metrics"
	"issuebridge/internal/models"
	"issuebridge/internal/normalizer"
	"issuebridge/internal/utils"

	"github.com/gofiber/fiber/v3"
	gh "github.com/google/go-github/v80/github"
	"github.com/valyala/fasthttp"
)

// GitHub header keys that drive webhook validation.
const (
	signatureHeader = "X-Hub-Signature-256"
	deliveryHeader  = "X-GitHub-Delivery"
)

const defaultEmitTimeout = 10 * time.Second

// DeliveryRecorder stores the receipt of a processed delivery.
type DeliveryRecorder interface {
	Record(ctx context.Context, d models.Delivery) error
}

// Hooks holds what the webhook handlers need. Deliveries and Audit may be nil.
type Hooks struct {
	Secret      string
	Trigger     models.TriggerContext
	Emitter     normalizer.Emitter
	Deliveries  DeliveryRecorder
	Audit       *events.Emitter
	EmitTimeout time.Duration

	now func() time.Time
}

// issuesHandler verifies a delivery, normalizes it and forwards any resulting
// incident event to the alerting provider.
func (h *Hooks) issuesHandler(c fiber.Ctx) error {
	secret := strings.TrimSpace(h.Secret)
	if secret == "" {
		return utils.StatusError(c, errmsg.GitHubSecretNotConfigured)
	}

	payload := append([]byte(nil), c.Body()...)

	signature := strings.TrimSpace(c.Get(signatureHeader))
	if signature == "" {
		return utils.StatusError(c, errmsg.GitHubSignatureMissing)
	}

	// Reject requests whose HMAC cannot be verified with our shared secret.
	if err := gh.ValidateSignature(signature, payload, []byte(secret)); err != nil {
		return utils.StatusError(c, errmsg.GitHubSignatureInvalid)
	}

	deliveryID := strings.TrimSpace(c.Get(deliveryHeader))
	if deliveryID == "" {
		return utils.StatusError(c, errmsg.GitHubDeliveryMissing)
	}

	req := models.InboundRequest{
		Headers: inboundHeaders(&c.Request().Header),
		Body:    payload,
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.emitTimeout())
	defer cancel()

	received := h.clock()
	out, err := normalizer.Process(ctx, req, h.Trigger, timedEmitter{next: h.Emitter})

	receipt := models.Delivery{
		ID:         deliveryID,
		Event:      out.EventType,
		Action:     out.Action,
		ReceivedAt: received,
	}
	if receipt.Event == "" {
		receipt.Event = normalizer.EventType(req.Headers)
	}

	switch {
	case errors.Is(err, normalizer.ErrEmitFailed):
		metrics.ObserveDelivery(receipt.Event, metrics.OutcomeFailed)
		h.Audit.EmitFailed(deliveryID, out.Event.DedupKey, err)
		logger.Error("alert emit failed", "delivery", deliveryID, "dedupKey", out.Event.DedupKey, "error", err)

		receipt.Status = models.DeliveryFailed
		receipt.DedupKey = out.Event.DedupKey
		receipt.Reason = err.Error()
		h.record(receipt)

		return utils.StatusError(c, errmsg.AlertEmitFailed)

	case err != nil:
		metrics.ObserveDelivery(receipt.Event, metrics.OutcomeRejected)
		h.Audit.IssueRejected(deliveryID, err)
		logger.Warn("issue delivery rejected", "delivery", deliveryID, "error", err)

		receipt.Status = models.DeliveryRejected
		receipt.Reason = err.Error()
		h.record(receipt)

		var fe *normalizer.FieldError
		if errors.As(err, &fe) {
			return utils.StatusError(c, errmsg.GitHubMissingField(fe.Path))
		}
		return utils.StatusError(c, errmsg.GitHubInvalidPayload)

	case !out.Emitted():
		metrics.ObserveDelivery(receipt.Event, metrics.OutcomeSuppressed)
		h.Audit.IssueSuppressed(deliveryID, out.EventType, out.Action, string(out.Reason))
		logger.Debug("delivery suppressed", "delivery", deliveryID, "event", out.EventType, "action", out.Action, "reason", out.Reason)

		receipt.Status = models.DeliverySuppressed
		receipt.Reason = string(out.Reason)
		h.record(receipt)

		return c.SendStatus(fiber.StatusNoContent)
	}

	metrics.ObserveDelivery(receipt.Event, metrics.OutcomeEmitted)
	h.Audit.IssueEmitted(deliveryID, *out.Event)
	logger.Info("incident event emitted", "delivery", deliveryID, "dedupKey", out.Event.DedupKey, "action", out.Action)

	receipt.Status = models.DeliveryEmitted
	receipt.DedupKey = out.Event.DedupKey
	h.record(receipt)

	return c.Status(fiber.StatusAccepted).JSON(out.Event)
}

// inboundHeaders copies the request headers in wire order. HTTP header names
// are case-insensitive and the server may have re-cased them, so GitHub's
// event header is restored to its canonical spelling.
func inboundHeaders(h *fasthttp.RequestHeader) []models.Header {
	var headers []models.Header

	h.VisitAll(func(key, value []byte) {
		name := string(key)
		if strings.EqualFold(name, normalizer.EventHeader) {
			name = normalizer.EventHeader
		}
		headers = append(headers, models.Header{Name: name, Value: string(value)})
	})

	return headers
}

// record stores the receipt; failures are logged and never change the response.
func (h *Hooks) record(d models.Delivery) {
	if h.Deliveries == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.Deliveries.Record(ctx, d); err != nil {
		logger.Warn("delivery receipt not stored", "delivery", d.ID, "error", err)
	}
}

func (h *Hooks) emitTimeout() time.Duration {
	if h.EmitTimeout > 0 {
		return h.EmitTimeout
	}
	return defaultEmitTimeout
}

func (h *Hooks) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now().UTC()
}
