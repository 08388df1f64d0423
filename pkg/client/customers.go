package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

// Onboarding asks the exchange to onboard a customer at a custodian.
type Onboarding struct {
	Name                 string  `json:"name" validate:"required"`
	Custodian            string  `json:"custodian" validate:"required"`
	FIXAccountIdentifier *string `json:"FIXAccountIdentifier"`
}

// CustomerChanges are the mutable customer fields. Nil fields are sent as null.
type CustomerChanges struct {
	Custodian            *string `json:"custodian"`
	FIXAccountIdentifier *string `json:"FIXAccountIdentifier"`
}

type withdrawalBody struct {
	VenueWithdrawalIdentifier string        `json:"venueWithdrawalIdentifier"`
	Withdrawal                []core.Amount `json:"withdrawal"`
}

func (c *Client) GetCustomer(ctx context.Context, customerID string) (core.Customer, error) {
	return call[core.Customer](ctx, c, core.NewRequest(http.MethodGet, path("customers", customerID)))
}

func (c *Client) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return call[[]core.Customer](ctx, c, core.NewRequest(http.MethodGet, "customers"))
}

// RequestCustomerOnboarding starts onboarding of customerID.
func (c *Client) RequestCustomerOnboarding(ctx context.Context, customerID string, onboarding Onboarding) (core.Customer, error) {
	if err := validate.Struct(onboarding); err != nil {
		return core.Customer{}, err
	}
	req := core.NewRequest(http.MethodPost, path("customers", customerID, "onboard")).SetBody(onboarding)
	return call[core.Customer](ctx, c, req)
}

func (c *Client) ChangeCustomer(ctx context.Context, customerID string, changes CustomerChanges) (core.Customer, error) {
	req := core.NewRequest(http.MethodPatch, path("customers", customerID)).SetBody(changes)
	return call[core.Customer](ctx, c, req)
}

func (c *Client) ListCustomerDeposits(ctx context.Context, customerID string, dates DateRange) ([]core.Transfer, error) {
	req := dates.apply(core.NewRequest(http.MethodGet, path("customers", customerID, "deposits")))
	return call[[]core.Transfer](ctx, c, req)
}

func (c *Client) ListCustomerWithdrawals(ctx context.Context, customerID string, dates DateRange) ([]core.Transfer, error) {
	req := dates.apply(core.NewRequest(http.MethodGet, path("customers", customerID, "withdrawals")))
	return call[[]core.Transfer](ctx, c, req)
}

func (c *Client) ListCustomerWithdrawalRequests(ctx context.Context, customerID string) ([]core.WithdrawalRequest, error) {
	req := core.NewRequest(http.MethodGet, path("customers", customerID, "withdrawal-requests"))
	return call[[]core.WithdrawalRequest](ctx, c, req)
}

func (c *Client) ProcessCustomerWithdrawalRequest(ctx context.Context, customerID, requestID string) error {
	req := core.NewRequest(http.MethodPost, path("customers", customerID, "withdrawal-requests", requestID, "process"))
	return c.exec(ctx, req)
}

func (c *Client) RejectCustomerWithdrawalRequest(ctx context.Context, customerID, requestID string) error {
	req := core.NewRequest(http.MethodDelete, path("customers", customerID, "withdrawal-requests", requestID))
	return c.exec(ctx, req)
}

// CreateCustomerWithdrawal withdraws amounts from a customer. An empty
// venueWithdrawalID is replaced with a random UUID.
func (c *Client) CreateCustomerWithdrawal(ctx context.Context, customerID string, amounts []core.Amount, venueWithdrawalID string) ([]core.Transfer, error) {
	if venueWithdrawalID == "" {
		venueWithdrawalID = uuid.NewString()
	}
	body := withdrawalBody{VenueWithdrawalIdentifier: venueWithdrawalID, Withdrawal: nonNil(amounts)}
	req := core.NewRequest(http.MethodPost, path("customers", customerID, "withdrawals")).SetBody(body)
	return call[[]core.Transfer](ctx, c, req)
}
