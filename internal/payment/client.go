package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// gateway payment state we care about; everything else is treated as pending
const StatusCompleted = "COMPLETED"

// Client talks to the hosted payment gateway. The service never handles
// card details itself: it only verifies transaction status for webhook
// notifications.
type Client struct {
	http           *resty.Client
	consumerKey    string
	consumerSecret string
}

// NewClient creates new gateway Client instance
func NewClient(baseURL, consumerKey, consumerSecret string) *Client {
	return &Client{
		http:           resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// TransactionStatus is the gateway's view of one payment.
type TransactionStatus struct {
	TrackingID        string `json:"order_tracking_id"`
	MerchantReference string `json:"merchant_reference"`
	PaymentStatus     string `json:"payment_status_description"`
	PaymentMethod     string `json:"payment_method"`
}

// AccessToken requests a short-lived gateway API token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	var tokenResp tokenResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetBody(map[string]string{
			"consumer_key":    c.consumerKey,
			"consumer_secret": c.consumerSecret,
		}).
		SetResult(&tokenResp).
		Post("/api/Auth/RequestToken")
	if err != nil {
		return "", err
	}

	if resp.StatusCode() != 200 || tokenResp.Token == "" {
		return "", fmt.Errorf("gateway token request failed with status %d", resp.StatusCode())
	}

	return tokenResp.Token, nil
}

// GetTransactionStatus verifies a payment with the gateway. Webhook
// payloads are never trusted directly; the status is always re-read from
// the gateway before the order is marked paid.
func (c *Client) GetTransactionStatus(ctx context.Context, trackingID string) (*TransactionStatus, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var status TransactionStatus

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetAuthToken(token).
		SetQueryParam("orderTrackingId", trackingID).
		SetResult(&status).
		Get("/api/Transactions/GetTransactionStatus")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("gateway status request failed with status %d", resp.StatusCode())
	}

	return &status, nil
}
