package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-softwarelab/common/pkg/to"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
	"github.com/StrikeProtocols/api-code-samples/pkg/hashing"
)

// TradeFilter narrows ListTrades. Nil and zero fields are not sent.
type TradeFilter struct {
	ContinuationToken      *string
	From                   time.Time
	To                     time.Time
	CounterpartyIdentifier *string
}

// NewTrade is a trade reported by the venue.
type NewTrade struct {
	Identifier             string    `validate:"required"`
	Side                   core.Side `validate:"min=0,max=1"`
	BaseSymbol             string    `validate:"required"`
	TermSymbol             string    `validate:"required"`
	Dealt                  string    `validate:"required"`
	Rate                   string    `validate:"required"`
	Counter                string    `validate:"required"`
	CounterpartyIdentifier string    `validate:"required"`
	ExecutionDate          time.Time
	VenueFee               string    `validate:"required"`
	VenueFeeSymbol         *string
	LiquidityIndicator     *string
	Notes                  *string
}

// TradeChanges lists the fields UpdateTrade overrides. Nil fields keep the value of the
// original trade.
type TradeChanges struct {
	Side                   *core.Side
	BaseSymbol             *string
	TermSymbol             *string
	Dealt                  *string
	Rate                   *string
	Counter                *string
	CounterpartyIdentifier *string
	VenueFee               *string
	VenueFeeSymbol         *string
}

type submitTradeBody struct {
	Identifier             string    `json:"identifier"`
	Side                   core.Side `json:"side"`
	BaseSymbol             string    `json:"baseSymbol"`
	TermSymbol             string    `json:"termSymbol"`
	Dealt                  string    `json:"dealt"`
	Rate                   string    `json:"rate"`
	Counter                string    `json:"counter"`
	CounterpartyIdentifier string    `json:"counterpartyIdentifier"`
	LiquidityIndicator     *string   `json:"liquidityIndicator"`
	VenueFee               string    `json:"venueFee"`
	VenueFeeSymbol         *string   `json:"venueFeeSymbol"`
	Notes                  *string   `json:"notes"`
	ExecutionDate          string    `json:"executionDate"`
	TradeHash              string    `json:"tradeHash"`
}

type updateTradeBody struct {
	BaseSymbol             *string    `json:"baseSymbol,omitempty"`
	Counter                *string    `json:"counter,omitempty"`
	CounterpartyIdentifier *string    `json:"counterpartyIdentifier,omitempty"`
	Dealt                  *string    `json:"dealt,omitempty"`
	Rate                   *string    `json:"rate,omitempty"`
	Side                   *core.Side `json:"side,omitempty"`
	TermSymbol             *string    `json:"termSymbol,omitempty"`
	TradeHash              string     `json:"tradeHash"`
	VenueFee               *string    `json:"venueFee,omitempty"`
	VenueFeeSymbol         *string    `json:"venueFeeSymbol,omitempty"`
}

// ListTrades returns one page of trades.
func (c *Client) ListTrades(ctx context.Context, filter TradeFilter) (core.TradePage, error) {
	req := core.NewRequest(http.MethodGet, "trades").
		SetParam("continuationToken", filter.ContinuationToken).
		SetParam("from", filter.From).
		SetParam("to", filter.To).
		SetParam("counterpartyIdentifier", filter.CounterpartyIdentifier)
	return call[core.TradePage](ctx, c, req)
}

// GetTrade returns a single trade.
func (c *Client) GetTrade(ctx context.Context, tradeID string) (core.Trade, error) {
	return call[core.Trade](ctx, c, core.NewRequest(http.MethodGet, path("trades", tradeID)))
}

// SubmitTrade reports a trade together with its trade hash.
func (c *Client) SubmitTrade(ctx context.Context, trade NewTrade) (core.Trade, error) {
	if err := validate.Struct(trade); err != nil {
		return core.Trade{}, fmt.Errorf("submit trade: %w", err)
	}
	if trade.ExecutionDate.IsZero() {
		return core.Trade{}, errors.New("submit trade: execution date is required")
	}

	executed := trade.ExecutionDate.UTC()
	record := hashing.TradeRecord{
		VenueID:        c.venueID,
		CounterpartyID: trade.CounterpartyIdentifier,
		TradeID:        trade.Identifier,
		Side:           trade.Side.String(),
		BaseSymbol:     trade.BaseSymbol,
		TermSymbol:     trade.TermSymbol,
		Dealt:          trade.Dealt,
		Rate:           trade.Rate,
		Counter:        trade.Counter,
		ExecutionDate:  executed,
	}
	tradeHash, err := hashing.TradeHash(record)
	if err != nil {
		return core.Trade{}, fmt.Errorf("submit trade: %w", err)
	}

	body := submitTradeBody{
		Identifier:             trade.Identifier,
		Side:                   trade.Side,
		BaseSymbol:             trade.BaseSymbol,
		TermSymbol:             trade.TermSymbol,
		Dealt:                  trade.Dealt,
		Rate:                   trade.Rate,
		Counter:                trade.Counter,
		CounterpartyIdentifier: trade.CounterpartyIdentifier,
		LiquidityIndicator:     trade.LiquidityIndicator,
		VenueFee:               trade.VenueFee,
		VenueFeeSymbol:         trade.VenueFeeSymbol,
		Notes:                  trade.Notes,
		ExecutionDate:          executed.Format(core.ParamTimeLayout),
		TradeHash:              tradeHash,
	}

	c.logger.Debug().Str("trade_id", trade.Identifier).Str("trade_hash", tradeHash).Msg("submitting trade")
	return call[core.Trade](ctx, c, core.NewRequest(http.MethodPost, "trades").SetBody(body))
}

// UpdatedTradeHash returns the hash of original with changes applied.
func (c *Client) UpdatedTradeHash(original core.Trade, changes TradeChanges) (string, error) {
	side := to.ValueOr(changes.Side, original.Side)
	if !side.Valid() {
		return "", fmt.Errorf("trade %s: unknown side %d", original.Identifier, int(side))
	}
	record := original.Record(c.venueID)
	record.Side = side.String()
	record.BaseSymbol = to.ValueOr(changes.BaseSymbol, original.BaseSymbol)
	record.TermSymbol = to.ValueOr(changes.TermSymbol, original.TermSymbol)
	record.Dealt = to.ValueOr(changes.Dealt, original.Dealt)
	record.Rate = to.ValueOr(changes.Rate, original.Rate)
	record.Counter = to.ValueOr(changes.Counter, original.Counter)
	record.CounterpartyID = to.ValueOr(changes.CounterpartyIdentifier, original.CounterpartyIdentifier)
	return hashing.TradeHash(record)
}

// UpdateTrade amends a previously submitted trade, as returned by GetTrade. The new
// trade hash covers the original trade merged with changes.
func (c *Client) UpdateTrade(ctx context.Context, original core.Trade, changes TradeChanges) (core.Trade, error) {
	tradeHash, err := c.UpdatedTradeHash(original, changes)
	if err != nil {
		return core.Trade{}, fmt.Errorf("update trade: %w", err)
	}

	body := updateTradeBody{
		BaseSymbol:             changes.BaseSymbol,
		Counter:                changes.Counter,
		CounterpartyIdentifier: changes.CounterpartyIdentifier,
		Dealt:                  changes.Dealt,
		Rate:                   changes.Rate,
		Side:                   changes.Side,
		TermSymbol:             changes.TermSymbol,
		TradeHash:              tradeHash,
		VenueFee:               changes.VenueFee,
		VenueFeeSymbol:         changes.VenueFeeSymbol,
	}
	req := core.NewRequest(http.MethodPatch, path("trades", original.Identifier)).SetBody(body)
	return call[core.Trade](ctx, c, req)
}

// CancelTrade withdraws a trade.
func (c *Client) CancelTrade(ctx context.Context, tradeID string) error {
	return c.exec(ctx, core.NewRequest(http.MethodDelete, path("trades", tradeID)))
}
