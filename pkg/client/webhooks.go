package client

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

// WebhookFilter narrows ListWebhooks. Nil and zero fields are not sent.
type WebhookFilter struct {
	FromSequenceNumber *int64
	From               time.Time
	To                 time.Time
	Undelivered        *bool
}

type deliveredBody struct {
	DeliveredWebhooks []int64 `json:"deliveredWebhooks"`
}

// SetWebhookConfig points webhook delivery at cfg.URL.
func (c *Client) SetWebhookConfig(ctx context.Context, cfg core.WebhookConfig) (core.WebhookConfig, error) {
	req := core.NewRequest(http.MethodPost, "webhook-config/").SetBody(cfg)
	return call[core.WebhookConfig](ctx, c, req)
}

func (c *Client) GetWebhookConfig(ctx context.Context) (core.WebhookConfig, error) {
	return call[core.WebhookConfig](ctx, c, core.NewRequest(http.MethodGet, "webhook-config"))
}

func (c *Client) DeleteWebhookConfig(ctx context.Context) error {
	return c.exec(ctx, core.NewRequest(http.MethodDelete, "webhook-config"))
}

func (c *Client) ListWebhooks(ctx context.Context, filter WebhookFilter) ([]core.Webhook, error) {
	req := core.NewRequest(http.MethodGet, "webhooks").
		SetParam("fromSequenceNumber", filter.FromSequenceNumber).
		SetParam("from", filter.From).
		SetParam("to", filter.To).
		SetParam("undelivered", filter.Undelivered)
	return call[[]core.Webhook](ctx, c, req)
}

func (c *Client) GetWebhook(ctx context.Context, sequenceNumber int64) (core.Webhook, error) {
	req := core.NewRequest(http.MethodGet, path("webhooks", strconv.FormatInt(sequenceNumber, 10)))
	return call[core.Webhook](ctx, c, req)
}

// MarkWebhooksDelivered acknowledges webhooks by sequence number.
func (c *Client) MarkWebhooksDelivered(ctx context.Context, sequenceNumbers []int64) error {
	req := core.NewRequest(http.MethodPost, "webhooks/delivered").SetBody(deliveredBody{DeliveredWebhooks: nonNil(sequenceNumbers)})
	return c.exec(ctx, req)
}
