package hashing

import (
	"cmp"
	"fmt"
	"slices"
)

// FlowEntry is one inflow or outflow leg of a settlement.
type FlowEntry struct {
	CounterpartyCustodianID string `json:"counterpartyCustodianIdentifier"`
	Symbol                  string `json:"strikeSymbol"`
	Amount                  string `json:"amount"`
}

// SettlementFlow is the fund movement of an account within a settlement plan.
type SettlementFlow struct {
	SettlementPlanID string
	AccountID        string
	Inflows          []FlowEntry
	Outflows         []FlowEntry
}

type quantizedEntry struct {
	custodian string
	symbol    string
	amount    string
}

// sortEntries orders by (custodian, symbol). The quantized amount settles full ties so
// the result does not depend on input order.
func sortEntries(entries []FlowEntry) ([]quantizedEntry, error) {
	out := make([]quantizedEntry, 0, len(entries))
	for _, e := range entries {
		amount, err := Quantize(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", e.CounterpartyCustodianID, e.Symbol, err)
		}
		out = append(out, quantizedEntry{custodian: e.CounterpartyCustodianID, symbol: e.Symbol, amount: amount})
	}

	slices.SortFunc(out, func(a, b quantizedEntry) int {
		return cmp.Or(
			cmp.Compare(a.custodian, b.custodian),
			cmp.Compare(a.symbol, b.symbol),
			cmp.Compare(a.amount, b.amount),
		)
	})
	return out, nil
}

// Canonical returns the string hashed by FlowHash. Inflows read custodian to account,
// outflows account to custodian, and the plan identifier closes the string.
// The input slices are not modified.
func (f SettlementFlow) Canonical() (string, error) {
	inflows, err := sortEntries(f.Inflows)
	if err != nil {
		return "", fmt.Errorf("inflow: %w", err)
	}
	outflows, err := sortEntries(f.Outflows)
	if err != nil {
		return "", fmt.Errorf("outflow: %w", err)
	}

	parts := make([]string, 0, len(inflows)+len(outflows)+1)
	for _, e := range inflows {
		parts = append(parts, join(e.custodian, f.AccountID, e.symbol, e.amount))
	}
	for _, e := range outflows {
		parts = append(parts, join(f.AccountID, e.custodian, e.symbol, e.amount))
	}
	parts = append(parts, f.SettlementPlanID)

	return join(parts...), nil
}

// FlowHash returns the settlement flow hash, the value signed before a settlement is
// requested.
func FlowHash(f SettlementFlow) (string, error) {
	content, err := f.Canonical()
	if err != nil {
		return "", fmt.Errorf("settlement flow %s: %w", f.SettlementPlanID, err)
	}
	return SHA256Hex(content), nil
}

// VerifyFlowHash recomputes the flow hash and compares it with a server-supplied value.
func VerifyFlowHash(f SettlementFlow, expected string) error {
	actual, err := FlowHash(f)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("settlement flow %s: %w: computed %s, expected %s", f.SettlementPlanID, ErrHashMismatch, actual, expected)
	}
	return nil
}
