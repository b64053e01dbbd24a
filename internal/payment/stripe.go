package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrCheckoutFailed = errors.New("checkout session could not be created")

type Checkout struct {
	ProviderID string
	URL        string
}

// StripeProvider creates Checkout Sessions against the Stripe REST API
// directly; the form-encoded endpoint is stable and a full SDK pulls in far
// more surface than this one call needs.
type StripeProvider struct {
	secretKey  string
	baseURL    string
	successURL string
	cancelURL  string
	client     *http.Client
}

func NewStripeProvider(secretKey, publicBaseURL string) *StripeProvider {
	return &StripeProvider{
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com",
		successURL: publicBaseURL + "/sessions/checkout/success",
		cancelURL:  publicBaseURL + "/sessions/checkout/cancelled",
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *StripeProvider) Enabled() bool {
	return p.secretKey != ""
}

func (p *StripeProvider) CreateCheckout(ctx context.Context, sessionID int, amountCents int64, description string) (string, string, error) {
	if !p.Enabled() {
		return "", "", ErrCheckoutFailed
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", p.successURL)
	form.Set("cancel_url", p.cancelURL)
	form.Set("client_reference_id", strconv.Itoa(sessionID))
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", description)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: stripe returned %d", ErrCheckoutFailed, resp.StatusCode)
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}

	return out.ID, out.URL, nil
}

// DisabledProvider is wired when no Stripe key is configured; sessions are
// still created and simply stay in pending_payment.
type DisabledProvider struct{}

func (DisabledProvider) Enabled() bool { return false }

func (DisabledProvider) CreateCheckout(ctx context.Context, sessionID int, amountCents int64, description string) (string, string, error) {
	return "", "", ErrCheckoutFailed
}
