package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/herdbook/internal/config"
)

// maxBodyLength is the WhatsApp Cloud API limit for a text body.
const maxBodyLength = 4096

// Client exposes WhatsApp Cloud API operations used by the application.
type Client interface {
	SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendTextMessageRequest represents a simplified text message payload.
type SendTextMessageRequest struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendTextMessageResponse mirrors the successful response from Meta.
type SendTextMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError is the error payload returned by the Cloud API.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	TraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.Status, e.Code, e.Message)
}

type apiErrorEnvelope struct {
	Error APIError `json:"error"`
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body       string `json:"body"`
		PreviewURL bool   `json:"preview_url"`
	} `json:"text"`
}

func (c *APIClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	if req.To == "" {
		return nil, errors.New("send whatsapp message: recipient is required")
	}

	payload := textPayload{MessagingProduct: "whatsapp", To: req.To, Type: "text"}
	payload.Text.Body = truncate(req.Body, maxBodyLength)
	payload.Text.PreviewURL = req.PreviewURL

	result := new(SendTextMessageResponse)
	envelope := new(apiErrorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(envelope).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.IsError() {
		apiErr := envelope.Error
		apiErr.Status = resp.StatusCode()
		return nil, &apiErr
	}

	return result, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Notifier sends text messages to one fixed recipient.
type Notifier struct {
	client Client
	to     string
}

// NewNotifier binds client to the recipient.
func NewNotifier(client Client, to string) *Notifier {
	return &Notifier{client: client, to: to}
}

// Notify delivers text to the recipient.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	_, err := n.client.SendTextMessage(ctx, SendTextMessageRequest{To: n.to, Body: text})
	return err
}
