package billplz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	ProductionBaseURL = "https://www.billplz.com"
	SandboxBaseURL    = "https://www.billplz-sandbox.com"
)

// PaidAtLayout is the format of paid_at in callbacks and bill objects
const PaidAtLayout = "2006-01-02 15:04:05 -0700"

// ParsePaidAt reads a paid_at value; ok is false when it is empty or malformed.
func ParsePaidAt(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(PaidAtLayout, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Config carries the gateway credentials. Validate is called per request so a
// missing secret surfaces to the caller instead of failing at boot.
type Config struct {
	APIKey       string
	CollectionID string
	Sandbox      bool
	SignatureKey string
	BaseURL      string
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.CollectionID == "" {
		return ErrMissingCollectionID
	}
	return nil
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	if c.Sandbox {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}

type CreateBillRequest struct {
	Email           string
	Name            string
	Mobile          string
	AmountSen       int64
	CallbackURL     string
	RedirectURL     string
	Description     string
	Reference1Label string
	Reference1      string
}

// Bill is the subset of the gateway's bill object this service uses.
type Bill struct {
	ID              string `json:"id"`
	CollectionID    string `json:"collection_id"`
	Paid            bool   `json:"paid"`
	State           string `json:"state"`
	Amount          int64  `json:"amount"`
	PaidAmount      int64  `json:"paid_amount"`
	DueAt           string `json:"due_at"`
	Email           string `json:"email"`
	Mobile          string `json:"mobile"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	Reference1Label string `json:"reference_1_label"`
	Reference1      string `json:"reference_1"`
	PaidAt          string `json:"paid_at"`
}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateBill creates a hosted payment page for the given request.
func (c *Client) CreateBill(ctx context.Context, req CreateBillRequest) (*Bill, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("collection_id", c.cfg.CollectionID)
	form.Set("email", req.Email)
	form.Set("name", req.Name)
	if req.Mobile != "" {
		form.Set("mobile", req.Mobile)
	}
	form.Set("amount", strconv.FormatInt(req.AmountSen, 10))
	form.Set("callback_url", req.CallbackURL)
	if req.RedirectURL != "" {
		form.Set("redirect_url", req.RedirectURL)
	}
	form.Set("description", TruncateDescription(req.Description))
	if req.Reference1 != "" {
		form.Set("reference_1_label", req.Reference1Label)
		form.Set("reference_1", req.Reference1)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.baseURL()+"/api/v3/bills", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var bill Bill
	if err := c.do(httpReq, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// GetBill fetches the current state of a bill.
func (c *Client) GetBill(ctx context.Context, id string) (*Bill, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.baseURL()+"/api/v3/bills/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var bill Bill
	if err := c.do(httpReq, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.SetBasicAuth(c.cfg.APIKey, "")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseGatewayError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseGatewayError reads {"error":{"type":..., "message": string|[]string}}.
func parseGatewayError(status int, body []byte) error {
	gwErr := &GatewayError{StatusCode: status}

	var payload struct {
		Error struct {
			Type    string          `json:"type"`
			Message json.RawMessage `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" {
			gwErr.Messages = []string{text}
		}
		return gwErr
	}

	gwErr.Type = payload.Error.Type
	var single string
	var many []string
	switch {
	case json.Unmarshal(payload.Error.Message, &single) == nil:
		gwErr.Messages = []string{single}
	case json.Unmarshal(payload.Error.Message, &many) == nil:
		gwErr.Messages = many
	}
	return gwErr
}
