package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
	"github.com/StrikeProtocols/api-code-samples/pkg/hashing"
)

type createPlanBody struct {
	Custodian        string   `json:"custodian"`
	TradeIdentifiers []string `json:"tradeIdentifiers"`
}

type modifyPlanTradesBody struct {
	AddTrades    []string `json:"addTrades"`
	RemoveTrades []string `json:"removeTrades"`
}

type settleBody struct {
	SettlementHash           string `json:"settlementHash"`
	SignedSettlementFlowHash string `json:"signedSettlementFlowHash"`
}

// CreateSettlementPlan groups trades into a plan settled at custodianID.
func (c *Client) CreateSettlementPlan(ctx context.Context, custodianID string, tradeIDs []string) (core.SettlementPlan, error) {
	body := createPlanBody{Custodian: custodianID, TradeIdentifiers: nonNil(tradeIDs)}
	return call[core.SettlementPlan](ctx, c, core.NewRequest(http.MethodPost, "settlement-plans").SetBody(body))
}

func (c *Client) ListSettlementPlans(ctx context.Context) ([]core.SettlementPlan, error) {
	return call[[]core.SettlementPlan](ctx, c, core.NewRequest(http.MethodGet, "settlement-plans"))
}

func (c *Client) GetSettlementPlan(ctx context.Context, planID string) (core.SettlementPlan, error) {
	return call[core.SettlementPlan](ctx, c, core.NewRequest(http.MethodGet, path("settlement-plans", planID)))
}

func (c *Client) CancelSettlementPlan(ctx context.Context, planID string) error {
	return c.exec(ctx, core.NewRequest(http.MethodDelete, path("settlement-plans", planID)))
}

// ModifySettlementPlanTrades adds and removes trades. Nil slices are sent as empty lists.
func (c *Client) ModifySettlementPlanTrades(ctx context.Context, planID string, add, remove []string) (core.SettlementPlan, error) {
	body := modifyPlanTradesBody{AddTrades: nonNil(add), RemoveTrades: nonNil(remove)}
	req := core.NewRequest(http.MethodPatch, path("settlement-plans", planID, "trades")).SetBody(body)
	return call[core.SettlementPlan](ctx, c, req)
}

func (c *Client) RemoveCustomerFromSettlementPlan(ctx context.Context, planID, customerID string) error {
	return c.exec(ctx, core.NewRequest(http.MethodDelete, path("settlement-plans", planID, "customers", customerID)))
}

func (c *Client) SendFundingRequests(ctx context.Context, planID string) error {
	return c.exec(ctx, core.NewRequest(http.MethodPost, path("settlement-plans", planID, "funding-requests")))
}

// VerifySettlementPlan recomputes the settlement hash from the plan's trade hashes and,
// when the plan carries flow detail, the flow hash. A plan without trade hashes is only
// checked for its flow.
func VerifySettlementPlan(plan core.SettlementPlan) error {
	if len(plan.TradeHashes) > 0 {
		if actual := hashing.SettlementHash(plan.TradeHashes); actual != plan.SettlementHash {
			return fmt.Errorf("settlement plan %s: %w: computed settlement hash %s, expected %s",
				plan.Identifier, hashing.ErrHashMismatch, actual, plan.SettlementHash)
		}
	}
	if flow, ok := plan.SettlementFlow(); ok {
		if err := hashing.VerifyFlowHash(flow, plan.FlowHash); err != nil {
			return fmt.Errorf("settlement plan %s: %w", plan.Identifier, err)
		}
	}
	return nil
}

// RequestSettlement asks the exchange to settle plan, as returned by GetSettlementPlan.
// The plan's flow hash is signed with the configured signer; the plan is verified
// first so a tampered plan is never signed.
func (c *Client) RequestSettlement(ctx context.Context, plan core.SettlementPlan) (core.Settlement, error) {
	if c.signer == nil {
		return core.Settlement{}, core.ErrNoSigner
	}
	if err := VerifySettlementPlan(plan); err != nil {
		return core.Settlement{}, err
	}

	signature, err := c.signer.Sign(plan.FlowHash)
	if err != nil {
		return core.Settlement{}, fmt.Errorf("sign flow hash: %w", err)
	}

	c.logger.Info().Str("settlement_plan", plan.Identifier).Msg("requesting settlement")
	body := settleBody{SettlementHash: plan.SettlementHash, SignedSettlementFlowHash: signature}
	req := core.NewRequest(http.MethodPost, path("settlement-plans", plan.Identifier, "settle")).SetBody(body)
	return call[core.Settlement](ctx, c, req)
}

func (c *Client) GetSettlement(ctx context.Context, settlementID string) (core.Settlement, error) {
	return call[core.Settlement](ctx, c, core.NewRequest(http.MethodGet, path("settlements", settlementID)))
}

func (c *Client) ListSettlements(ctx context.Context, dates DateRange) ([]core.Settlement, error) {
	return call[[]core.Settlement](ctx, c, dates.apply(core.NewRequest(http.MethodGet, "settlements")))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
