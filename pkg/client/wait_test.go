package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StrikeProtocols/api-code-samples/internal/exchangetest"
	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

func withdrawals(statuses ...string) []map[string]string {
	out := make([]map[string]string, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, map[string]string{"identifier": string(rune('a' + i)), "status": s, "amount": "1", "symbol": "USD"})
	}
	return out
}

func TestWaitForCustomerWithdrawals(t *testing.T) {
	var polls atomic.Int32
	srv := exchangetest.New(t)
	srv.Handle(http.MethodGet, "/v1/customers/c-1/withdrawals", func(exchangetest.Call) exchangetest.Reply {
		if polls.Add(1) < 3 {
			return exchangetest.Reply{Status: http.StatusOK, Body: withdrawals("Completed", "Requested")}
		}
		return exchangetest.Reply{Status: http.StatusOK, Body: withdrawals("Completed", "Completed")}
	})
	c := newClient(t, srv, WithPollInterval(time.Millisecond))

	got, err := c.WaitForCustomerWithdrawals(context.Background(), "c-1", time.Second)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, w := range got {
		assert.Equal(t, core.TransferCompleted, w.Status)
	}
	assert.Equal(t, int32(3), polls.Load())
}

func TestWaitForCustomerWithdrawals_Failed(t *testing.T) {
	srv := exchangetest.New(t)
	srv.HandleJSON(http.MethodGet, "/v1/customers/c-1/withdrawals", http.StatusOK, withdrawals("Completed", "Failed"))
	c := newClient(t, srv, WithPollInterval(time.Millisecond))

	_, err := c.WaitForCustomerWithdrawals(context.Background(), "c-1", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
	assert.NotErrorIs(t, err, core.ErrTimeoutWaiting)
	assert.Len(t, srv.Calls(), 1)
}

func TestWaitForSettlementPlanStatus(t *testing.T) {
	var polls atomic.Int32
	srv := exchangetest.New(t)
	srv.Handle(http.MethodGet, "/v1/settlement-plans/sp-1", func(exchangetest.Call) exchangetest.Reply {
		status := "Pending"
		if polls.Add(1) > 1 {
			status = "Settled"
		}
		return exchangetest.Reply{Status: http.StatusOK, Body: map[string]string{"identifier": "sp-1", "status": status}}
	})
	c := newClient(t, srv, WithPollInterval(time.Millisecond))

	plan, err := c.WaitForSettlementPlanStatus(context.Background(), "sp-1", "Settled", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Settled", plan.Status)
}

func TestWaitTimeout(t *testing.T) {
	srv := exchangetest.New(t)
	srv.HandleJSON(http.MethodGet, "/v1/settlement-plans/sp-1", http.StatusOK, map[string]string{"identifier": "sp-1", "status": "Pending"})
	c := newClient(t, srv, WithPollInterval(time.Millisecond))

	plan, err := c.WaitForSettlementPlanStatus(context.Background(), "sp-1", "Settled", 20*time.Millisecond)
	assert.ErrorIs(t, err, core.ErrTimeoutWaiting)
	assert.Equal(t, "Pending", plan.Status, "the last observed state is returned")
	assert.GreaterOrEqual(t, len(srv.Calls()), 2)
}

func TestWaitCanceled(t *testing.T) {
	srv := exchangetest.New(t)
	srv.HandleJSON(http.MethodGet, "/v1/settlement-plans/sp-1", http.StatusOK, map[string]string{"status": "Pending"})
	c := newClient(t, srv, WithPollInterval(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.WaitForSettlementPlanStatus(ctx, "sp-1", "Settled", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitPropagatesErrors(t *testing.T) {
	srv := exchangetest.New(t)
	c := newClient(t, srv, WithPollInterval(time.Millisecond))

	_, err := c.WaitForSettlementPlanStatus(context.Background(), "missing", "Settled", time.Second)
	assert.True(t, core.IsNotFound(err))
	assert.Len(t, srv.Calls(), 1)
}
