package core

import (
	"fmt"
	"time"

	"github.com/StrikeProtocols/api-code-samples/pkg/hashing"
)

// Side is the venue's side of a trade.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

// Valid reports whether s is SideBuy or SideSell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// String returns "Buy" or "Sell", the spelling that enters the trade hash.
func (s Side) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return [...]string{"Buy", "Sell"}[s]
}

// MarshalJSON implements json.Marshaler for Side.
func (s Side) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown side %d", int(s))
	}
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Side.
func (s *Side) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Buy"`, `"BUY"`, `"buy"`:
		*s = SideBuy
	case `"Sell"`, `"SELL"`, `"sell"`:
		*s = SideSell
	default:
		return fmt.Errorf("unknown side %s", data)
	}
	return nil
}

// TransferStatus is the state of a deposit or withdrawal.
type TransferStatus int

const (
	TransferRequested TransferStatus = iota
	TransferCompleted
	TransferFailed
)

func (s TransferStatus) String() string {
	if s < TransferRequested || s > TransferFailed {
		return "Unknown"
	}
	return [...]string{"Requested", "Completed", "Failed"}[s]
}

// IsTerminal returns true once the transfer can no longer change.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferCompleted || s == TransferFailed
}

// MarshalJSON implements json.Marshaler for TransferStatus.
func (s TransferStatus) MarshalJSON() ([]byte, error) {
	if s < TransferRequested || s > TransferFailed {
		return nil, fmt.Errorf("unknown transfer status %d", int(s))
	}
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for TransferStatus.
func (s *TransferStatus) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Requested"`:
		*s = TransferRequested
	case `"Completed"`:
		*s = TransferCompleted
	case `"Failed"`:
		*s = TransferFailed
	default:
		return fmt.Errorf("unknown transfer status %s", data)
	}
	return nil
}

type WithdrawalDestinationType string

const (
	DestinationUSBank            WithdrawalDestinationType = "USBank"
	DestinationInternationalBank WithdrawalDestinationType = "InternationalBank"
	DestinationCrypto            WithdrawalDestinationType = "Crypto"
	DestinationSignet            WithdrawalDestinationType = "Signet"
)

type BankAccountType string

const (
	BankAccountChecking BankAccountType = "checking"
	BankAccountSavings  BankAccountType = "savings"
)

type CustodianStatus string

const (
	CustodianEnabled  CustodianStatus = "Enabled"
	CustodianDisabled CustodianStatus = "Disabled"
)

type SymbolType string

const (
	SymbolCurrency SymbolType = "Currency"
	SymbolAsset    SymbolType = "Asset"
)

// APIKey describes the key a session authenticates with.
type APIKey struct {
	Identifier      string `json:"identifier,omitempty"`
	Name            string `json:"name,omitempty"`
	VenueIdentifier string `json:"venueIdentifier"`
}

type Symbol struct {
	Symbol    string     `json:"symbol"`
	Name      string     `json:"name,omitempty"`
	Type      SymbolType `json:"type,omitempty"`
	Precision int        `json:"precision,omitempty"`
}

// Amount is a decimal quantity of a symbol.
type Amount struct {
	Amount string `json:"amount"`
	Symbol string `json:"symbol"`
}

type Customer struct {
	Identifier           string   `json:"identifier"`
	Name                 string   `json:"name"`
	Status               string   `json:"status,omitempty"`
	Custodian            string   `json:"custodian,omitempty"`
	Domicile             string   `json:"domicile,omitempty"`
	AllowedCustodians    []string `json:"allowedCustodians,omitempty"`
	FIXAccountIdentifier *string  `json:"FIXAccountIdentifier,omitempty"`
}

// Transfer is a deposit or withdrawal.
type Transfer struct {
	Identifier                string         `json:"identifier"`
	Status                    TransferStatus `json:"status"`
	Amount                    string         `json:"amount"`
	Symbol                    string         `json:"symbol"`
	VenueWithdrawalIdentifier string         `json:"venueWithdrawalIdentifier,omitempty"`
	DestinationIdentifier     string         `json:"destinationIdentifier,omitempty"`
	CreatedAt                 *time.Time     `json:"createdAt,omitempty"`
}

type WithdrawalRequest struct {
	Identifier string   `json:"identifier"`
	Status     string   `json:"status,omitempty"`
	Requested  []Amount `json:"requested"`
}

type WebhookConfig struct {
	URL               string  `json:"url"`
	Retries           int     `json:"retries"`
	RetryInterval     int     `json:"retryInterval"`
	NotificationEmail *string `json:"notificationEmail"`
}

type Webhook struct {
	SequenceNumber int64      `json:"sequenceNumber"`
	Type           string     `json:"type,omitempty"`
	Delivered      bool       `json:"delivered"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	Payload        any        `json:"payload,omitempty"`
}

type Trade struct {
	Identifier             string    `json:"identifier"`
	Side                   Side      `json:"side"`
	BaseSymbol             string    `json:"baseSymbol"`
	TermSymbol             string    `json:"termSymbol"`
	Dealt                  string    `json:"dealt"`
	Rate                   string    `json:"rate"`
	Counter                string    `json:"counter"`
	CounterpartyIdentifier string    `json:"counterpartyIdentifier"`
	ExecutionDate          time.Time `json:"executionDate"`
	VenueFee               string    `json:"venueFee,omitempty"`
	VenueFeeSymbol         *string   `json:"venueFeeSymbol,omitempty"`
	LiquidityIndicator     *string   `json:"liquidityIndicator,omitempty"`
	Notes                  *string   `json:"notes,omitempty"`
	TradeHash              string    `json:"tradeHash,omitempty"`
	Status                 string    `json:"status,omitempty"`
}

// Record returns the hashed content of a trade submitted by venueID.
func (t Trade) Record(venueID string) hashing.TradeRecord {
	return hashing.TradeRecord{
		VenueID:        venueID,
		CounterpartyID: t.CounterpartyIdentifier,
		TradeID:        t.Identifier,
		Side:           t.Side.String(),
		BaseSymbol:     t.BaseSymbol,
		TermSymbol:     t.TermSymbol,
		Dealt:          t.Dealt,
		Rate:           t.Rate,
		Counter:        t.Counter,
		ExecutionDate:  t.ExecutionDate,
	}
}

// TradePage is one page of trades. A non-empty ContinuationToken fetches the next.
type TradePage struct {
	Trades            []Trade `json:"trades"`
	ContinuationToken string  `json:"continuationToken,omitempty"`
}

// PlanFlow is the caller's fund movement inside a settlement plan.
type PlanFlow struct {
	AccountIdentifier string              `json:"accountIdentifier"`
	Inflows           []hashing.FlowEntry `json:"inflows"`
	Outflows          []hashing.FlowEntry `json:"outflows"`
}

type SettlementPlan struct {
	Identifier       string            `json:"identifier"`
	Custodian        string            `json:"custodian"`
	Status           string            `json:"status"`
	TradeIdentifiers []string          `json:"tradeIdentifiers,omitempty"`
	TradeHashes      map[string]string `json:"tradeHashes,omitempty"`
	SettlementHash   string            `json:"settlementHash"`
	FlowHash         string            `json:"flowHash"`
	Flow             *PlanFlow         `json:"flow,omitempty"`
}

// SettlementFlow returns the hashable flow of the plan, or false when the plan carries
// no flow detail.
func (p SettlementPlan) SettlementFlow() (hashing.SettlementFlow, bool) {
	if p.Flow == nil {
		return hashing.SettlementFlow{}, false
	}
	return hashing.SettlementFlow{
		SettlementPlanID: p.Identifier,
		AccountID:        p.Flow.AccountIdentifier,
		Inflows:          p.Flow.Inflows,
		Outflows:         p.Flow.Outflows,
	}, true
}

type Settlement struct {
	Identifier               string     `json:"identifier"`
	SettlementPlanIdentifier string     `json:"settlementPlanIdentifier,omitempty"`
	Status                   string     `json:"status"`
	SettlementHash           string     `json:"settlementHash,omitempty"`
	CreatedAt                *time.Time `json:"createdAt,omitempty"`
}

type Custodian struct {
	Identifier string          `json:"identifier"`
	Name       string          `json:"name"`
	Status     CustodianStatus `json:"status"`
}

type Address struct {
	Street1    string  `json:"street1"`
	Street2    *string `json:"street2"`
	City       string  `json:"city"`
	Region     string  `json:"region"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
}

type InternationalTransferDetails struct {
	SwiftCode                 string   `json:"swiftCode"`
	IntermediaryBankName      *string  `json:"intermediaryBankName"`
	IntermediaryBankReference *string  `json:"intermediaryBankReference"`
	IntermediaryBankAddress   *Address `json:"intermediaryBankAddress"`
}

// WireTransferTargetInfo identifies a fiat withdrawal destination.
type WireTransferTargetInfo struct {
	BankAccountName      string                        `json:"bankAccountName"`
	BankAccountNumber    string                        `json:"bankAccountNumber"`
	BankName             *string                       `json:"bankName"`
	BankAccountType      *BankAccountType              `json:"bankAccountType"`
	RoutingNumber        *string                       `json:"routingNumber"`
	WireReference        *string                       `json:"wireReference,omitempty"`
	InternationalDetails *InternationalTransferDetails `json:"internationalDetails"`
}

type WithdrawalDestination struct {
	Identifier             string                    `json:"identifier,omitempty"`
	Name                   string                    `json:"name"`
	DestinationType        WithdrawalDestinationType `json:"destinationType"`
	Symbol                 *string                   `json:"symbol"`
	WireTransferTargetInfo *WireTransferTargetInfo   `json:"wireTransferTargetInfo"`
	WalletAddress          *string                   `json:"walletAddress"`
	DestinationTag         *string                   `json:"destinationTag"`
}

// DepositInstruction tells a customer where to send funds of one symbol.
type DepositInstruction struct {
	Symbol                 string                  `json:"symbol"`
	WalletAddress          *string                 `json:"walletAddress,omitempty"`
	DestinationTag         *string                 `json:"destinationTag,omitempty"`
	WireTransferTargetInfo *WireTransferTargetInfo `json:"wireTransferTargetInfo,omitempty"`
}
