package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL = "https://api-m.sandbox.paypal.com"

	// プロバイダ側のステータス文字列
	StatusCreated   = "CREATED"
	StatusCompleted = "COMPLETED"

	currencyCode = "USD"
)

var errCredentialsRequired = errors.New("paypal client id and secret are required")

// APIError はPayPal APIが2xx以外を返したときのエラー。
// メッセージはそのまま呼び出し側へ伝える。
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal: status %d: %s", e.StatusCode, e.Body)
}

// 支払いintent（PayPal側のorder）。作成直後は Status=CREATED。
type Intent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// capture結果。Status=COMPLETED のときだけ有効な支払い。
type Capture struct {
	ID         string
	Status     string
	PayerEmail string
	AmountPaid string
}

// Client はPayPalの create/capture だけを薄く包む。
// リトライはしない（必要なら呼び出し側の責任）。
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
}

type Option func(*Client)

// WithHTTPClient はデフォルトのHTTPクライアントを差し替える（テスト用）。
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL はAPIのベースURLを差し替える。
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func NewClient(clientID string, secret string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(secret) == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		clientID:   clientID,
		secret:     secret,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// client_credentials でアクセストークンを取得する。
func (c *Client) generateAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError(resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", errors.New("paypal: empty access token")
	}
	return body.AccessToken, nil
}

// CreateIntent は金額を指定してPayPal側にorderを作る。
func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal) (Intent, error) {
	token, err := c.generateAccessToken(ctx)
	if err != nil {
		return Intent{}, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currencyCode,
					"value":         amount.StringFixed(2),
				},
			},
		},
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return Intent{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/checkout/orders", bytes.NewReader(buf))
	if err != nil {
		return Intent{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Intent{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Intent{}, readAPIError(resp)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return Intent{}, err
	}
	return intent, nil
}

// CaptureIntent はPayPal側orderをcaptureして結果を正規化して返す。
func (c *Client) CaptureIntent(ctx context.Context, intentID string) (Capture, error) {
	token, err := c.generateAccessToken(ctx)
	if err != nil {
		return Capture{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/checkout/orders/"+url.PathEscape(intentID)+"/capture", nil)
	if err != nil {
		return Capture{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Capture{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Capture{}, readAPIError(resp)
	}

	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Payer  struct {
			EmailAddress string `json:"email_address"`
		} `json:"payer"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					Amount struct {
						Value string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Capture{}, err
	}

	capture := Capture{
		ID:         body.ID,
		Status:     body.Status,
		PayerEmail: body.Payer.EmailAddress,
	}
	if len(body.PurchaseUnits) > 0 && len(body.PurchaseUnits[0].Payments.Captures) > 0 {
		capture.AmountPaid = body.PurchaseUnits[0].Payments.Captures[0].Amount.Value
	}

	return capture, nil
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
	}
}
