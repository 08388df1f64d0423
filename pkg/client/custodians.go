package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-softwarelab/common/pkg/to"

	"github.com/StrikeProtocols/api-code-samples/pkg/core"
)

// CustodianWithdrawal requests funds out of a custodian account.
type CustodianWithdrawal struct {
	VenueWithdrawalIdentifier *string `json:"venueWithdrawalIdentifier"`
	Amount                    string  `json:"amount" validate:"required"`
	Symbol                    string  `json:"symbol" validate:"required"`
	DestinationIdentifier     string  `json:"destinationIdentifier" validate:"required"`
	WireReference             *string `json:"wireReference"`
}

func (c *Client) ListCustodians(ctx context.Context) ([]core.Custodian, error) {
	return call[[]core.Custodian](ctx, c, core.NewRequest(http.MethodGet, "custodians"))
}

func (c *Client) GetCustodian(ctx context.Context, custodianID string) (core.Custodian, error) {
	return call[core.Custodian](ctx, c, core.NewRequest(http.MethodGet, path("custodians", custodianID)))
}

func (c *Client) GetCustodianDepositInstructions(ctx context.Context, custodianID string) ([]core.DepositInstruction, error) {
	req := core.NewRequest(http.MethodGet, path("custodians", custodianID, "deposit-instructions"))
	return call[[]core.DepositInstruction](ctx, c, req)
}

func (c *Client) ListCustodianDeposits(ctx context.Context, custodianID string, dates DateRange) ([]core.Transfer, error) {
	req := dates.apply(core.NewRequest(http.MethodGet, path("custodians", custodianID, "deposits")))
	return call[[]core.Transfer](ctx, c, req)
}

func (c *Client) ListWithdrawalDestinations(ctx context.Context, custodianID string) ([]core.WithdrawalDestination, error) {
	req := core.NewRequest(http.MethodGet, path("custodians", custodianID, "withdrawal-destinations"))
	return call[[]core.WithdrawalDestination](ctx, c, req)
}

func (c *Client) GetWithdrawalDestination(ctx context.Context, custodianID, destinationID string) (core.WithdrawalDestination, error) {
	req := core.NewRequest(http.MethodGet, path("custodians", custodianID, "withdrawal-destinations", destinationID))
	return call[core.WithdrawalDestination](ctx, c, req)
}

func (c *Client) DeleteWithdrawalDestination(ctx context.Context, custodianID, destinationID string) error {
	req := core.NewRequest(http.MethodDelete, path("custodians", custodianID, "withdrawal-destinations", destinationID))
	return c.exec(ctx, req)
}

// CreateWithdrawalDestination registers a destination. Crypto destinations need a
// symbol and wallet address, bank destinations need wire transfer details.
func (c *Client) CreateWithdrawalDestination(ctx context.Context, custodianID string, dest core.WithdrawalDestination) (core.WithdrawalDestination, error) {
	if err := validateDestination(dest); err != nil {
		return core.WithdrawalDestination{}, err
	}
	dest.Identifier = ""
	req := core.NewRequest(http.MethodPost, path("custodians", custodianID, "withdrawal-destinations")).SetBody(dest)
	return call[core.WithdrawalDestination](ctx, c, req)
}

func (c *Client) RequestCustodianWithdrawal(ctx context.Context, custodianID string, w CustodianWithdrawal) (core.Transfer, error) {
	if err := validate.Struct(w); err != nil {
		return core.Transfer{}, err
	}
	req := core.NewRequest(http.MethodPost, path("custodians", custodianID, "withdrawals")).SetBody(w)
	return call[core.Transfer](ctx, c, req)
}

func (c *Client) ListCustodianWithdrawals(ctx context.Context, custodianID string, dates DateRange) ([]core.Transfer, error) {
	req := dates.apply(core.NewRequest(http.MethodGet, path("custodians", custodianID, "withdrawals")))
	return call[[]core.Transfer](ctx, c, req)
}

func validateDestination(d core.WithdrawalDestination) error {
	if d.Name == "" {
		return errors.New("withdrawal destination: name is required")
	}
	switch d.DestinationType {
	case core.DestinationCrypto:
		if to.ValueOr(d.Symbol, "") == "" || to.ValueOr(d.WalletAddress, "") == "" {
			return errors.New("withdrawal destination: crypto destinations need a symbol and wallet address")
		}
	case core.DestinationUSBank, core.DestinationInternationalBank:
		if d.WireTransferTargetInfo == nil {
			return fmt.Errorf("withdrawal destination: %s destinations need wire transfer details", d.DestinationType)
		}
	case core.DestinationSignet:
	default:
		return fmt.Errorf("withdrawal destination: unknown type %q", d.DestinationType)
	}
	return nil
}
