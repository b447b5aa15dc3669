package payment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"elearn-order-service/internal/config"
	"elearn-order-service/internal/domain"
	"elearn-order-service/internal/domain/model"
	"elearn-order-service/internal/domain/ports/adapter"
)

// successMarker is the fragment the legacy ePay verification endpoint puts in
// its XML body for a genuine transaction.
const successMarker = "<response_code>Success</response_code>"

var _ adapter.PaymentGateway = (*EsewaGateway)(nil)

// EsewaGateway implements the payment port against the legacy eSewa ePay
// protocol: a browser redirect with a fixed query parameter set, and a
// form-encoded verification POST answered with an XML fragment.
type EsewaGateway struct {
	merchantCode    string
	paymentURL      string
	verificationURL string
	successURL      string
	failureURL      string
	client          *http.Client
}

func NewEsewaGateway(cfg config.EsewaConfig) *EsewaGateway {
	return &EsewaGateway{
		merchantCode:    cfg.MerchantCode,
		paymentURL:      cfg.PaymentURL,
		verificationURL: cfg.VerificationURL,
		successURL:      cfg.SuccessURL,
		failureURL:      cfg.FailureURL,
		client:          &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *EsewaGateway) Name() string { return "esewa" }

// PaymentURL builds the redirect URL the browser is sent to. The gateway
// requires this exact key order and rejects requests that deviate, so the
// query string is assembled by hand rather than through url.Values (which
// sorts keys alphabetically).
func (g *EsewaGateway) PaymentURL(o *model.Order) (string, error) {
	if o.IsZero() || o.GatewayOrderID == "" {
		return "", domain.ErrInvalidArgument
	}

	params := [][2]string{
		{"amt", fmt.Sprintf("%.2f", o.Amount)},
		{"pid", o.GatewayOrderID},
		{"scd", g.merchantCode},
		{"su", g.successURL},
		{"fu", g.failureURL},
		{"pdc", "0"},
		{"psc", "0"},
		{"txAmt", "0"},
	}

	var b strings.Builder
	b.WriteString(g.paymentURL)
	b.WriteByte('?')
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String(), nil
}

// VerifyTransaction POSTs the reference data to the verification endpoint.
// A definitive "no" is (false, nil); transport failures and timeouts return
// domain.ErrGatewayUnavailable so callers can distinguish retryable outages.
func (g *EsewaGateway) VerifyTransaction(ctx context.Context, refID, gatewayOrderID, amount string) (bool, error) {
	form := url.Values{}
	form.Set("amt", amount)
	form.Set("scd", g.merchantCode)
	form.Set("pid", gatewayOrderID)
	form.Set("rid", refID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.verificationURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	return strings.Contains(string(body), successMarker), nil
}

// WithTimeout overrides the HTTP client timeout. Intended for tests.
func (g *EsewaGateway) WithTimeout(d time.Duration) *EsewaGateway {
	g.client.Timeout = d
	return g
}
