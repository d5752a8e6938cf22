package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levishimwe/savesmart-mobile-app-Group4/internal/payment/domain"
	"github.com/levishimwe/savesmart-mobile-app-Group4/pkg/momoclient"
)

type providerStub struct {
	tokenErr  error
	actionErr error

	tokenProducts []momoclient.Product
	tokenCreds    []momoclient.Credentials

	payCalls      int
	transferCalls int
	lastToken     string
	lastSubKey    string
	lastRef       string
	lastPay       momoclient.RequestToPayRequest
	lastTransfer  momoclient.TransferRequest
}

func (s *providerStub) GetAccessToken(ctx context.Context, product momoclient.Product, creds momoclient.Credentials) (string, error) {
	s.tokenProducts = append(s.tokenProducts, product)
	s.tokenCreds = append(s.tokenCreds, creds)
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return "T", nil
}

func (s *providerStub) RequestToPay(ctx context.Context, token, subscriptionKey, referenceID string, payload momoclient.RequestToPayRequest) error {
	s.payCalls++
	s.lastToken, s.lastSubKey, s.lastRef, s.lastPay = token, subscriptionKey, referenceID, payload
	return s.actionErr
}

func (s *providerStub) Transfer(ctx context.Context, token, subscriptionKey, referenceID string, payload momoclient.TransferRequest) error {
	s.transferCalls++
	s.lastToken, s.lastSubKey, s.lastRef, s.lastTransfer = token, subscriptionKey, referenceID, payload
	return s.actionErr
}

var (
	collectionCreds   = momoclient.Credentials{APIUser: "col-user", APIKey: "col-key", SubscriptionKey: "col-sub"}
	disbursementCreds = momoclient.Credentials{APIUser: "dis-user", APIKey: "dis-key", SubscriptionKey: "dis-sub"}
)

func newTestService(provider ProviderClient) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(provider, collectionCreds, disbursementCreds, "EUR", logger)
}

func validRequest() domain.PaymentRequest {
	return domain.PaymentRequest{Phone: "25078", Amount: "10", Description: "test", UserID: "u1"}
}

func TestPay_UsesCollectionCredentialsAndReturnsReference(t *testing.T) {
	provider := &providerStub{}
	svc := newTestService(provider)

	ref, err := svc.Pay(context.Background(), validRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, ref)
	assert.Equal(t, []momoclient.Product{momoclient.ProductCollection}, provider.tokenProducts)
	assert.Equal(t, collectionCreds, provider.tokenCreds[0])
	assert.Equal(t, 1, provider.payCalls)
	assert.Equal(t, "T", provider.lastToken)
	assert.Equal(t, "col-sub", provider.lastSubKey)
	assert.Equal(t, ref, provider.lastRef)
	assert.Equal(t, momoclient.RequestToPayRequest{
		Amount:       "10",
		Currency:     "EUR",
		ExternalID:   "u1",
		Payer:        momoclient.Party{PartyIDType: "MSISDN", PartyID: "25078"},
		PayerMessage: "Payment to app",
		PayeeNote:    "test",
	}, provider.lastPay)
}

func TestPay_GeneratesDistinctReferences(t *testing.T) {
	svc := newTestService(&providerStub{})

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		ref, err := svc.Pay(context.Background(), validRequest())
		require.NoError(t, err)
		_, dup := seen[ref]
		require.False(t, dup, "reference %s reused", ref)
		seen[ref] = struct{}{}
	}
}

func TestPay_TokenFailureSkipsProviderCall(t *testing.T) {
	provider := &providerStub{tokenErr: errors.New("connection refused")}
	svc := newTestService(provider)

	_, err := svc.Pay(context.Background(), validRequest())

	require.Error(t, err)
	assert.Zero(t, provider.payCalls)
}

func TestPay_ProviderErrorIsWrapped(t *testing.T) {
	apiErr := &momoclient.APIError{Op: "requesttopay", StatusCode: 400, Body: []byte(`{"code":"PAYER_NOT_FOUND"}`)}
	svc := newTestService(&providerStub{actionErr: apiErr})

	_, err := svc.Pay(context.Background(), validRequest())

	var got *momoclient.APIError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 400, got.StatusCode)
}

func TestPay_RejectsMissingFields(t *testing.T) {
	provider := &providerStub{}
	svc := newTestService(provider)

	_, err := svc.Pay(context.Background(), domain.PaymentRequest{Amount: "10"})
	assert.ErrorIs(t, err, ErrInvalidPaymentRequest)

	_, err = svc.Pay(context.Background(), domain.PaymentRequest{Phone: "25078"})
	assert.ErrorIs(t, err, ErrInvalidPaymentRequest)

	assert.Empty(t, provider.tokenProducts)
}

func TestWithdraw_UsesDisbursementFlow(t *testing.T) {
	provider := &providerStub{}
	svc := newTestService(provider)

	ref, err := svc.Withdraw(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, []momoclient.Product{momoclient.ProductDisbursement}, provider.tokenProducts)
	assert.Equal(t, disbursementCreds, provider.tokenCreds[0])
	assert.Equal(t, 1, provider.transferCalls)
	assert.Zero(t, provider.payCalls)
	assert.Equal(t, ref, provider.lastRef)
	assert.Equal(t, "dis-sub", provider.lastSubKey)
	assert.Equal(t, momoclient.Party{PartyIDType: "MSISDN", PartyID: "25078"}, provider.lastTransfer.Payee)
	assert.Equal(t, "Withdrawal from app", provider.lastTransfer.PayerMessage)
}

func TestWithdraw_TokenFailureSkipsTransfer(t *testing.T) {
	provider := &providerStub{tokenErr: &momoclient.APIError{Op: "disbursement_token", StatusCode: 401}}
	svc := newTestService(provider)

	_, err := svc.Withdraw(context.Background(), validRequest())

	require.Error(t, err)
	assert.Zero(t, provider.transferCalls)
}
