package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testProvider(baseURL string) *StripeProvider {
	return &StripeProvider{
		secretKey:  "sk_test_123",
		baseURL:    baseURL,
		successURL: "https://levelup.test/sessions/checkout/success",
		cancelURL:  "https://levelup.test/sessions/checkout/cancelled",
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateCheckout(t *testing.T) {
	var gotAuth, gotIdempotency string
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdempotency = r.Header.Get("Idempotency-Key")
		assert.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "cs_test_abc", "url": "https://checkout.stripe.com/pay/cs_test_abc"}`))
	}))
	defer srv.Close()

	p := testProvider(srv.URL)

	checkoutID, checkoutURL, err := p.CreateCheckout(context.Background(), 42, 12000, "Private session with Coach Jordan")

	assert.NoError(t, err)
	assert.Equal(t, "cs_test_abc", checkoutID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_abc", checkoutURL)
	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.NotEmpty(t, gotIdempotency)
	assert.Equal(t, "42", gotForm["client_reference_id"][0])
	assert.Equal(t, "12000", gotForm["line_items[0][price_data][unit_amount]"][0])
}

func TestCreateCheckoutAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	p := testProvider(srv.URL)

	_, _, err := p.CreateCheckout(context.Background(), 42, 12000, "Private session")

	assert.ErrorIs(t, err, ErrCheckoutFailed)
}

func TestCreateCheckoutWithoutKey(t *testing.T) {
	p := &StripeProvider{}

	assert.False(t, p.Enabled())

	_, _, err := p.CreateCheckout(context.Background(), 42, 12000, "Private session")
	assert.ErrorIs(t, err, ErrCheckoutFailed)
}

func TestDisabledProvider(t *testing.T) {
	p := DisabledProvider{}

	assert.False(t, p.Enabled())

	_, _, err := p.CreateCheckout(context.Background(), 42, 12000, "Private session")
	assert.ErrorIs(t, err, ErrCheckoutFailed)
}
