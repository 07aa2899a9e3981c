// Package pagerduty submits normalized events to the PagerDuty Events API v2.
package pagerduty

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"issuebridge/internal/models"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultEventsURL = "https://events.pagerduty.com/v2/enqueue"
	userAgent        = "issuebridge"
)

var ErrRoutingKeyMissing = errors.New("pagerduty routing key not configured")

type Config struct {
	RoutingKey string
	EventsURL  string
	Timeout    time.Duration
}

// Client is the emit capability backed by the enqueue endpoint. It sends one
// request per event and never retries.
type Client struct {
	http       *resty.Client
	routingKey string
	url        string
}

// enqueueRequest is a NormalizedEvent addressed to an integration.
type enqueueRequest struct {
	RoutingKey string `json:"routing_key"`
	models.NormalizedEvent
}

type enqueueResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	DedupKey string   `json:"dedup_key"`
	Errors   []string `json:"errors,omitempty"`
}

func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, ErrRoutingKeyMissing
	}

	url := strings.TrimSpace(cfg.EventsURL)
	if url == "" {
		url = DefaultEventsURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)

	return &Client{
		http:       httpClient,
		routingKey: key,
		url:        url,
	}, nil
}

// EmitEventsV2 enqueues events in order and stops at the first failure.
func (c *Client) EmitEventsV2(ctx context.Context, events []models.NormalizedEvent) error {
	for _, evt := range events {
		if err := c.enqueue(ctx, evt); err != nil {
			return fmt.Errorf("enqueue %s: %w", evt.DedupKey, err)
		}
	}
	return nil
}

func (c *Client) enqueue(ctx context.Context, evt models.NormalizedEvent) error {
	var out enqueueResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(enqueueRequest{RoutingKey: c.routingKey, NormalizedEvent: evt}).
		SetResult(&out).
		SetError(&out).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}

	if resp.StatusCode() != http.StatusAccepted {
		msg := out.Message
		if msg == "" {
			msg = strings.TrimSpace(resp.String())
		}
		if len(out.Errors) > 0 {
			msg += " (" + strings.Join(out.Errors, "; ") + ")"
		}
		return fmt.Errorf("write failed: %s: %s", resp.Status(), msg)
	}

	return nil
}
