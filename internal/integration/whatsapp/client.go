package whatsapp

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

	"reservation-bot/internal/data/entity"
	"reservation-bot/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultGraphBase   = "https://graph.facebook.com"
	defaultAPIVersion  = "v21.0"
	defaultDialogBase  = "https://waba-v2.360dialog.io"
	defaultHTTPTimeout = 15 * time.Second
)

// ErrMissingCredentials means the business has no credentials for its
// provider.
var ErrMissingCredentials = errors.New("whatsapp: missing provider credentials")

// Client sends text messages through the provider each business is
// configured with.
type Client struct {
	graphBase  string
	apiVersion string
	dialogBase string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg utils.WhatsAppConfig, log *zap.Logger) *Client {
	c := &Client{
		graphBase:  strings.TrimRight(cfg.GraphBaseURL, "/"),
		apiVersion: cfg.GraphAPIVersion,
		dialogBase: strings.TrimRight(cfg.DialogBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With(zap.String("integration", "whatsapp")),
	}
	if c.graphBase == "" {
		c.graphBase = defaultGraphBase
	}
	if c.apiVersion == "" {
		c.apiVersion = defaultAPIVersion
	}
	if c.dialogBase == "" {
		c.dialogBase = defaultDialogBase
	}
	if cfg.Timeout <= 0 {
		c.httpClient.Timeout = defaultHTTPTimeout
	}
	return c
}

type textBody struct {
	Body string `json:"body"`
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

func (c *Client) Send(ctx context.Context, phone, text string, business *entity.Business) error {
	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone,
		Type:             "text",
		Text:             textBody{Body: text},
	})
	if err != nil {
		return fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	httpReq, err := c.newRequest(ctx, business, payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("whatsapp: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp: %s returned %d: %s", business.Provider, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	c.log.Debug("Message sent",
		zap.String("business_id", business.ID.String()),
		zap.String("provider", string(business.Provider)))
	return nil
}

func (c *Client) newRequest(ctx context.Context, business *entity.Business, payload []byte) (*http.Request, error) {
	var (
		url    string
		header string
		value  string
	)

	switch business.Provider {
	case entity.Provider360Dialog:
		if business.APIKey == "" {
			return nil, fmt.Errorf("%w: business %s has no api key", ErrMissingCredentials, business.ID)
		}
		url = c.dialogBase + "/messages"
		header, value = "D360-API-KEY", business.APIKey
	default:
		if business.AccessToken == "" || business.PhoneNumberID == nil || *business.PhoneNumberID == "" {
			return nil, fmt.Errorf("%w: business %s needs access token and phone number id", ErrMissingCredentials, business.ID)
		}
		url = fmt.Sprintf("%s/%s/%s/messages", c.graphBase, c.apiVersion, *business.PhoneNumberID)
		header, value = "Authorization", "Bearer "+business.AccessToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("whatsapp: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(header, value)
	return req, nil
}
