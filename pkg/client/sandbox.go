package client

import (
	"context"
	"net/http"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

// SandboxCustomer creates a test customer. Domicile defaults to "US".
type SandboxCustomer struct {
	Name                 string   `json:"name" validate:"required"`
	AllowedCustodians    []string `json:"allowedCustodians" validate:"required,min=1"`
	Domicile             string   `json:"domicile"`
	FIXAccountIdentifier *string  `json:"FIXAccountIdentifier"`
}

type requestedWithdrawalsBody struct {
	Requested []core.Amount `json:"requested"`
}

func sandbox(method, route string) *core.Request {
	return core.NewRequest(method, route).SetSandbox(true)
}

func (c *Client) SandboxCreateCustomer(ctx context.Context, customer SandboxCustomer) (core.Customer, error) {
	if err := validate.Struct(customer); err != nil {
		return core.Customer{}, err
	}
	if customer.Domicile == "" {
		customer.Domicile = "US"
	}
	return call[core.Customer](ctx, c, sandbox(http.MethodPost, "customers").SetBody(customer))
}

func (c *Client) SandboxTerminateCustomer(ctx context.Context, customerID string) error {
	return c.exec(ctx, sandbox(http.MethodDelete, path("customers", customerID)))
}

func (c *Client) SandboxAcceptOnboarding(ctx context.Context, customerID string) error {
	return c.exec(ctx, sandbox(http.MethodPost, path("customers", customerID, "accept")))
}

func (c *Client) SandboxRejectOnboarding(ctx context.Context, customerID string) error {
	return c.exec(ctx, sandbox(http.MethodPost, path("customers", customerID, "reject")))
}

func (c *Client) SandboxCreateCustomerDeposit(ctx context.Context, customerID string, amount core.Amount) (core.Transfer, error) {
	return call[core.Transfer](ctx, c, sandbox(http.MethodPost, path("customers", customerID, "deposits")).SetBody(amount))
}

func (c *Client) SandboxCreateCustomerWithdrawalRequest(ctx context.Context, customerID string, amounts []core.Amount) (core.WithdrawalRequest, error) {
	body := requestedWithdrawalsBody{Requested: nonNil(amounts)}
	req := sandbox(http.MethodPost, path("customers", customerID, "withdrawal-requests")).SetBody(body)
	return call[core.WithdrawalRequest](ctx, c, req)
}

func (c *Client) SandboxCreateCustodianDeposit(ctx context.Context, custodianID string, amount core.Amount) (core.Transfer, error) {
	return call[core.Transfer](ctx, c, sandbox(http.MethodPost, path("custodians", custodianID, "deposits")).SetBody(amount))
}
