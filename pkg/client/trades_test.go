package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-softwarelab/common/pkg/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StrikeProtocols/api-code-samples/internal/exchangetest"
	"github.com/StrikeProtocols/api-code-samples/pkg/core"
	"github.com/StrikeProtocols/api-code-samples/pkg/hashing"
)

const sampleTradeHash = "1d0b0b4ab7a8bb2c28062323efae4e4270c478daf65bdffdb97f0c1c08287305"

var sampleExecution = time.Date(2020, 1, 2, 3, 4, 5, 678_000_000, time.UTC)

func sampleNewTrade() NewTrade {
	return NewTrade{
		Identifier:             "abc123",
		Side:                   core.SideSell,
		BaseSymbol:             "XBT",
		TermSymbol:             "USD",
		Dealt:                  "12.345678",
		Rate:                   "11201.72",
		Counter:                "138292.83",
		CounterpartyIdentifier: "987654",
		ExecutionDate:          sampleExecution,
		VenueFee:               "0.01",
		Notes:                  to.Ptr("block trade"),
	}
}

func sampleCoreTrade() core.Trade {
	return core.Trade{
		Identifier:             "abc123",
		Side:                   core.SideSell,
		BaseSymbol:             "XBT",
		TermSymbol:             "USD",
		Dealt:                  "12.345678",
		Rate:                   "11201.72",
		Counter:                "138292.83",
		CounterpartyIdentifier: "987654",
		ExecutionDate:          sampleExecution,
		VenueFee:               "0.01",
		TradeHash:              sampleTradeHash,
	}
}

func echo(call exchangetest.Call) exchangetest.Reply {
	return exchangetest.Reply{Status: http.StatusOK, Body: call.Body}
}

func TestSubmitTrade(t *testing.T) {
	tests := []struct {
		name      string
		execution time.Time
	}{
		{"utc", sampleExecution},
		{"offset zone is normalised to utc", sampleExecution.In(time.FixedZone("CEST", 2*60*60))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := exchangetest.New(t)
			srv.Handle(http.MethodPost, "/v1/trades", echo)
			c := newClient(t, srv)

			trade := sampleNewTrade()
			trade.ExecutionDate = tt.execution

			created, err := c.SubmitTrade(context.Background(), trade)
			require.NoError(t, err)
			assert.Equal(t, sampleTradeHash, created.TradeHash)
			assert.Equal(t, core.SideSell, created.Side)
			assert.True(t, sampleExecution.Equal(created.ExecutionDate))

			calls := srv.Calls()
			require.Len(t, calls, 1)
			body := decodeBody(t, calls[0])
			assert.Equal(t, sampleTradeHash, body["tradeHash"])
			assert.Equal(t, "2020-01-02T03:04:05.678+00:00", body["executionDate"])
			assert.Equal(t, "Sell", body["side"])
			assert.Equal(t, "987654", body["counterpartyIdentifier"])
			assert.Equal(t, "block trade", body["notes"])
			assert.Contains(t, body, "liquidityIndicator")
			assert.Nil(t, body["liquidityIndicator"])
		})
	}
}

func TestSubmitTrade_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*NewTrade)
		errMsg string
	}{
		{"missing identifier", func(n *NewTrade) { n.Identifier = "" }, "Identifier"},
		{"missing execution date", func(n *NewTrade) { n.ExecutionDate = time.Time{} }, "execution date"},
		{"unparseable amount", func(n *NewTrade) { n.Dealt = "twelve" }, "dealt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := exchangetest.New(t)
			c := newClient(t, srv)

			trade := sampleNewTrade()
			tt.modify(&trade)
			_, err := c.SubmitTrade(context.Background(), trade)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Empty(t, srv.Calls())
		})
	}
}

func TestUpdatedTradeHash(t *testing.T) {
	srv := exchangetest.New(t)
	c := newClient(t, srv)
	original := sampleCoreTrade()

	unchanged, err := c.UpdatedTradeHash(original, TradeChanges{})
	require.NoError(t, err)
	assert.Equal(t, sampleTradeHash, unchanged)

	equivalent, err := c.UpdatedTradeHash(original, TradeChanges{Rate: to.Ptr("11201.7200")})
	require.NoError(t, err)
	assert.Equal(t, sampleTradeHash, equivalent, "equal decimal values hash the same")

	side := core.SideBuy
	changed, err := c.UpdatedTradeHash(original, TradeChanges{Side: &side, Dealt: to.Ptr("1")})
	require.NoError(t, err)

	record := original.Record(venueID)
	record.Side = "Buy"
	record.Dealt = "1"
	want, err := hashing.TradeHash(record)
	require.NoError(t, err)
	assert.Equal(t, want, changed)
	assert.NotEqual(t, sampleTradeHash, changed)

	unknown := core.Side(5)
	_, err = c.UpdatedTradeHash(original, TradeChanges{Side: &unknown})
	assert.ErrorContains(t, err, "unknown side 5")
}

func TestUpdateTrade(t *testing.T) {
	srv := exchangetest.New(t)
	srv.Handle(http.MethodPatch, "/v1/trades/abc123", func(call exchangetest.Call) exchangetest.Reply {
		return exchangetest.Reply{Status: http.StatusOK, Body: sampleCoreTrade()}
	})
	c := newClient(t, srv)

	_, err := c.UpdateTrade(context.Background(), sampleCoreTrade(), TradeChanges{Counter: to.Ptr("138292.830")})
	require.NoError(t, err)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPatch, calls[0].Method)
	body := decodeBody(t, calls[0])
	assert.Equal(t, map[string]any{"counter": "138292.830", "tradeHash": sampleTradeHash}, body)
}

func TestListTrades(t *testing.T) {
	srv := exchangetest.New(t)
	srv.HandleJSON(http.MethodGet, "/v1/trades", http.StatusOK, map[string]any{
		"trades":            []core.Trade{sampleCoreTrade()},
		"continuationToken": "next",
	})
	c := newClient(t, srv)

	page, err := c.ListTrades(context.Background(), TradeFilter{
		ContinuationToken:      to.Ptr("tok"),
		CounterpartyIdentifier: to.Ptr("987654"),
	})
	require.NoError(t, err)
	require.Len(t, page.Trades, 1)
	assert.Equal(t, "next", page.ContinuationToken)
	require.NoError(t, page.Trades[0].Record(venueID).Verify(page.Trades[0].TradeHash))

	_, err = c.ListTrades(context.Background(), TradeFilter{From: sampleExecution})
	require.NoError(t, err)

	calls := srv.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "continuationToken=tok&counterpartyIdentifier=987654", calls[0].RawQuery)
	assert.Equal(t, "from=2020-01-02T03%3A04%3A05.678%2B00%3A00", calls[1].RawQuery)
}

func TestCancelTrade(t *testing.T) {
	srv := exchangetest.New(t)
	srv.HandleJSON(http.MethodDelete, "/v1/trades/abc123", http.StatusNoContent, nil)
	c := newClient(t, srv)

	require.NoError(t, c.CancelTrade(context.Background(), "abc123"))
	require.Len(t, srv.Calls(), 1)
	assert.NotEmpty(t, srv.Calls()[0].IdempotencyID)
}
