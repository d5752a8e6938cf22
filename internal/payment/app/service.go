/**
 * @description
 * Core logic for the payment-service. Each call is a two-hop chain: fetch a fresh token
 * for the product, then submit the signed provider call tagged with a new correlation id.
 * There is no cache, no retry and no persisted state.
 *
 * @dependencies
 * - github.com/google/uuid: correlation identifiers.
 * - pkg/momoclient: MoMo API client.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/payment/domain"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/momoclient"
)

const (
	collectionPayerMessage   = "Payment to app"
	disbursementPayerMessage = "Withdrawal from app"
)

var ErrInvalidPaymentRequest = errors.New("invalid payment request")

// ProviderClient defines the MoMo calls the service depends on.
type ProviderClient interface {
	GetAccessToken(ctx context.Context, product momoclient.Product, creds momoclient.Credentials) (string, error)
	RequestToPay(ctx context.Context, token, subscriptionKey, referenceID string, payload momoclient.RequestToPayRequest) error
	Transfer(ctx context.Context, token, subscriptionKey, referenceID string, payload momoclient.TransferRequest) error
}

// Service relays collection and disbursement requests to the provider.
type Service struct {
	provider     ProviderClient
	collection   momoclient.Credentials
	disbursement momoclient.Credentials
	currency     string
	newReference func() string
	logger       *slog.Logger
}

// NewService creates a new payment service.
func NewService(provider ProviderClient, collection, disbursement momoclient.Credentials, currency string, logger *slog.Logger) *Service {
	return &Service{
		provider:     provider,
		collection:   collection,
		disbursement: disbursement,
		currency:     currency,
		newReference: uuid.NewString,
		logger:       logger,
	}
}

// Pay submits a request-to-pay pulling funds from the payer's wallet. It returns the
// correlation id; completion is reported by the provider out-of-band.
func (s *Service) Pay(ctx context.Context, req domain.PaymentRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	referenceID := s.newReference()
	logger := s.logger.With("op", "pay", "reference_id", referenceID, "user_id", req.UserID)

	token, err := s.provider.GetAccessToken(ctx, momoclient.ProductCollection, s.collection)
	if err != nil {
		logger.Error("collection token request failed", "error", err)
		return "", fmt.Errorf("get collection token: %w", err)
	}

	payload := momoclient.RequestToPayRequest{
		Amount:       req.Amount.String(),
		Currency:     s.currency,
		ExternalID:   req.UserID,
		Payer:        momoclient.Party{PartyIDType: momoclient.PartyIDTypeMSISDN, PartyID: req.Phone},
		PayerMessage: collectionPayerMessage,
		PayeeNote:    req.Description,
	}
	if err := s.provider.RequestToPay(ctx, token, s.collection.SubscriptionKey, referenceID, payload); err != nil {
		logger.Error("request to pay failed", "error", err)
		return "", fmt.Errorf("request to pay: %w", err)
	}

	logger.Info("request to pay accepted", "amount", payload.Amount, "currency", payload.Currency)
	return referenceID, nil
}

// Withdraw submits a transfer pushing funds to the payee's wallet.
func (s *Service) Withdraw(ctx context.Context, req domain.PaymentRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	referenceID := s.newReference()
	logger := s.logger.With("op", "withdraw", "reference_id", referenceID, "user_id", req.UserID)

	token, err := s.provider.GetAccessToken(ctx, momoclient.ProductDisbursement, s.disbursement)
	if err != nil {
		logger.Error("disbursement token request failed", "error", err)
		return "", fmt.Errorf("get disbursement token: %w", err)
	}

	payload := momoclient.TransferRequest{
		Amount:       req.Amount.String(),
		Currency:     s.currency,
		ExternalID:   req.UserID,
		Payee:        momoclient.Party{PartyIDType: momoclient.PartyIDTypeMSISDN, PartyID: req.Phone},
		PayerMessage: disbursementPayerMessage,
		PayeeNote:    req.Description,
	}
	if err := s.provider.Transfer(ctx, token, s.disbursement.SubscriptionKey, referenceID, payload); err != nil {
		logger.Error("transfer failed", "error", err)
		return "", fmt.Errorf("transfer: %w", err)
	}

	logger.Info("transfer accepted", "amount", payload.Amount, "currency", payload.Currency)
	return referenceID, nil
}

func validate(req domain.PaymentRequest) error {
	if strings.TrimSpace(req.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidPaymentRequest)
	}
	if req.Amount == "" {
		return fmt.Errorf("%w: amount is required", ErrInvalidPaymentRequest)
	}
	return nil
}
