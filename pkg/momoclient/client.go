/**
 * @description
 * This package provides a client for the MTN MoMo Open API. It wraps the two-hop flow
 * used by the payment-service: fetch a bearer token for a product (collection or
 * disbursement), then submit a request-to-pay or a transfer signed with that token.
 *
 * Tokens are never cached. Every call to GetAccessToken hits the provider.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, io, net/http: Standard Go libraries.
 */
package momoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Product selects one of the provider's API products. Each product has its own token
// endpoint and its own credential set.
type Product string

const (
	ProductCollection   Product = "collection"
	ProductDisbursement Product = "disbursement"
)

// PartyIDTypeMSISDN identifies a payer or payee by phone number.
const PartyIDTypeMSISDN = "MSISDN"

// ErrEmptyToken is returned when the token endpoint answers 2xx without an access_token.
var ErrEmptyToken = errors.New("momo token response did not contain an access token")

// Credentials is the static credential triple issued by the provider for one product.
type Credentials struct {
	APIUser         string
	APIKey          string
	SubscriptionKey string
}

// Client is a client for the MoMo API.
type Client struct {
	BaseURL           string
	TargetEnvironment string
	HTTPClient        *http.Client
}

// NewClient creates a new MoMo API client. A zero timeout leaves the http.Client default
// in place, so a hung upstream call blocks until the caller's context is done.
func NewClient(baseURL, targetEnvironment string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		TargetEnvironment: targetEnvironment,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// AccessToken is the body returned by the /token/ endpoints.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Party is a payer or payee reference.
type Party struct {
	PartyIDType string `json:"partyIdType"`
	PartyID     string `json:"partyId"`
}

// RequestToPayRequest is the payload for POST /collection/v1_0/requesttopay.
type RequestToPayRequest struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId"`
	Payer        Party  `json:"payer"`
	PayerMessage string `json:"payerMessage"`
	PayeeNote    string `json:"payeeNote"`
}

// TransferRequest is the payload for POST /disbursement/v1_0/transfer.
type TransferRequest struct {
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExternalID   string `json:"externalId"`
	Payee        Party  `json:"payee"`
	PayerMessage string `json:"payerMessage"`
	PayeeNote    string `json:"payeeNote"`
}

// APIError is a non-2xx answer from the provider. Body holds the raw response payload so
// callers can relay it unchanged.
type APIError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if body == "" {
		return fmt.Sprintf("momo api error: %s returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("momo api error: %s returned status %d: %s", e.Op, e.StatusCode, body)
}

// Payload returns the provider's error body as JSON when it is valid JSON, or as a plain
// string otherwise. It is what the payment-service puts under "error".
func (e *APIError) Payload() any {
	if len(bytes.TrimSpace(e.Body)) == 0 {
		return http.StatusText(e.StatusCode)
	}
	if json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	return string(e.Body)
}

// GetAccessToken exchanges the product credentials for a bearer token using HTTP Basic
// authentication and the subscription key header.
func (c *Client) GetAccessToken(ctx context.Context, product Product, creds Credentials) (string, error) {
	url := fmt.Sprintf("%s/%s/token/", c.BaseURL, product)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(creds.APIUser, creds.APIKey)
	req.Header.Set("Ocp-Apim-Subscription-Key", creds.SubscriptionKey)
	req.Header.Set("Accept", "application/json")

	bodyBytes, err := c.do(req, string(product)+"_token")
	if err != nil {
		return "", err
	}

	var token AccessToken
	if err := json.Unmarshal(bodyBytes, &token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", ErrEmptyToken
	}

	return token.AccessToken, nil
}

// RequestToPay asks the provider to pull funds from the payer. The provider answers 202
// and completes the payment out-of-band.
func (c *Client) RequestToPay(ctx context.Context, token, subscriptionKey, referenceID string, payload RequestToPayRequest) error {
	url := fmt.Sprintf("%s/%s/v1_0/requesttopay", c.BaseURL, ProductCollection)
	return c.submit(ctx, url, "requesttopay", token, subscriptionKey, referenceID, payload)
}

// Transfer asks the provider to push funds to the payee.
func (c *Client) Transfer(ctx context.Context, token, subscriptionKey, referenceID string, payload TransferRequest) error {
	url := fmt.Sprintf("%s/%s/v1_0/transfer", c.BaseURL, ProductDisbursement)
	return c.submit(ctx, url, "transfer", token, subscriptionKey, referenceID, payload)
}

// submit is the shared helper for signed action calls.
func (c *Client) submit(ctx context.Context, url, op, token, subscriptionKey, referenceID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Reference-Id", referenceID)
	req.Header.Set("X-Target-Environment", c.TargetEnvironment)
	req.Header.Set("Ocp-Apim-Subscription-Key", subscriptionKey)

	_, err = c.do(req, op)
	return err
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s request: %w", op, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: bodyBytes}
	}

	return bodyBytes, nil
}
