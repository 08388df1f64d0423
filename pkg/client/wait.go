package client

import (
	"context"
	"fmt"
	"time"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

// WaitForCustomerWithdrawals polls until every withdrawal of customerID is completed.
// A failed withdrawal ends the wait with an error. A timeout of zero uses
// DefaultWaitTimeout.
func (c *Client) WaitForCustomerWithdrawals(ctx context.Context, customerID string, timeout time.Duration) ([]core.Transfer, error) {
	return poll(ctx, c, timeout, func(ctx context.Context) ([]core.Transfer, bool, error) {
		withdrawals, err := c.ListCustomerWithdrawals(ctx, customerID, DateRange{})
		if err != nil {
			return nil, false, err
		}
		for _, w := range withdrawals {
			switch w.Status {
			case core.TransferFailed:
				return withdrawals, false, fmt.Errorf("withdrawal %s of customer %s failed", w.Identifier, customerID)
			case core.TransferRequested:
				return withdrawals, false, nil
			}
		}
		return withdrawals, true, nil
	})
}

// WaitForSettlementPlanStatus polls until the plan reaches status.
func (c *Client) WaitForSettlementPlanStatus(ctx context.Context, planID, status string, timeout time.Duration) (core.SettlementPlan, error) {
	return poll(ctx, c, timeout, func(ctx context.Context) (core.SettlementPlan, bool, error) {
		plan, err := c.GetSettlementPlan(ctx, planID)
		if err != nil {
			return plan, false, err
		}
		return plan, plan.Status == status, nil
	})
}

func poll[T any](ctx context.Context, c *Client, timeout time.Duration, check func(context.Context) (T, bool, error)) (T, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	deadline := time.Now().Add(timeout)

	for attempt := 1; ; attempt++ {
		current, done, err := check(ctx)
		if err != nil {
			return current, err
		}
		if done {
			return current, nil
		}
		if time.Now().After(deadline) {
			return current, fmt.Errorf("%w after %s (%d polls)", core.ErrTimeoutWaiting, timeout, attempt)
		}

		c.logger.Debug().Int("attempt", attempt).Msg("waiting")
		select {
		case <-ctx.Done():
			return current, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
