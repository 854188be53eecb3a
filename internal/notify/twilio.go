package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com/2010-04-01"

// TwilioSender sends SMS through the Twilio Messages REST API.
type TwilioSender struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	from       string
	baseURL    string
}

// NewTwilioSender constructs a Twilio client.
func NewTwilioSender(httpClient *http.Client, accountSID, authToken, from string) *TwilioSender {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TwilioSender{
		httpClient: httpClient,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    twilioBaseURL,
	}
}

func (c *TwilioSender) Name() string { return "twilio" }

// Send posts one message and returns the message SID on success.
func (c *TwilioSender) Send(ctx context.Context, phone, body string) (Result, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", c.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var apiResp struct {
		SID     string `json:"sid"`
		Status  string `json:"status"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if resp.StatusCode >= 300 {
		// Error pages from proxies are not always JSON.
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil || apiResp.Message == "" {
			return Result{}, fmt.Errorf("twilio: unexpected status %s", resp.Status)
		}
		return Result{}, fmt.Errorf("twilio: unexpected status %s: %s", resp.Status, apiResp.Message)
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return Result{}, fmt.Errorf("twilio: decode response: %w", err)
	}
	return Result{
		Status:    StatusSuccess,
		Message:   "SMS alert sent successfully via Twilio",
		Recipient: phone,
		SID:       apiResp.SID,
	}, nil
}
