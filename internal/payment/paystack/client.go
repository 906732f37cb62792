// Package paystack implements the payment provider contract over Paystack's
// transaction API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/staffsort/staffsort/internal/config"
	"github.com/staffsort/staffsort/internal/payment/domain"
	"go.uber.org/zap"
)

type Client struct {
	cfg   config.PaystackConfig
	httpc *http.Client
	log   *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		cfg:   cfg.Paystack,
		httpc: &http.Client{Timeout: 30 * time.Second},
		log:   log.Named("paystack"),
	}
}

func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

type initializePayload struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Reference   string            `json:"reference"`
	Currency    string            `json:"currency,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
	PaidAt string `json:"paid_at"`
}

func (c *Client) Initialize(ctx context.Context, req domain.InitializeRequest) (*domain.InitializeResponse, error) {
	payload := initializePayload{
		Email:       req.Email,
		Amount:      req.AmountMinor,
		Reference:   req.Reference,
		Currency:    req.Currency,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	env, err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("paystack: initialize rejected: %s", env.Message)
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("paystack: decode initialize response: %w", err)
	}

	return &domain.InitializeResponse{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*domain.VerifyResponse, error) {
	env, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("paystack: decode verify response: %w", err)
	}

	resp := &domain.VerifyResponse{
		Success:     env.Status && data.Status == "success",
		Status:      data.Status,
		Reference:   data.Reference,
		AmountMinor: data.Amount,
		PayerEmail:  data.Customer.Email,
	}
	if data.PaidAt != "" {
		if paidAt, err := time.Parse(time.RFC3339, data.PaidAt); err == nil {
			resp.PaidAt = &paidAt
		}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("paystack: decode response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.log.Warn("paystack request failed",
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.String("message", env.Message),
		)
		return nil, fmt.Errorf("paystack: %s %s: status %d: %s", method, path, res.StatusCode, env.Message)
	}

	return &env, nil
}
