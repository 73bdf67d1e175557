package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

const (
	sslcommerzSandboxURL = "https://sandbox.sslcommerz.com/gwprocess/v4/api.php"
	sslcommerzLiveURL    = "https://securepay.sslcommerz.com/gwprocess/v4/api.php"
)

type SSLCommerzConfig struct {
	StoreID   string
	StorePass string
	IsSandbox bool
	// Endpoint overrides the session API URL derived from IsSandbox.
	Endpoint string
}

type sslcommerzSessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type SSLCommerzGateway struct {
	cfg    SSLCommerzConfig
	client *http.Client
}

func NewSSLCommerzGateway(cfg SSLCommerzConfig, client *http.Client) *SSLCommerzGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &SSLCommerzGateway{cfg: cfg, client: client}
}

func (g *SSLCommerzGateway) Name() string {
	return "sslcommerz"
}

func (g *SSLCommerzGateway) endpoint() string {
	if g.cfg.Endpoint != "" {
		return g.cfg.Endpoint
	}
	if g.cfg.IsSandbox {
		return sslcommerzSandboxURL
	}
	return sslcommerzLiveURL
}

func (g *SSLCommerzGateway) CreateSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	form := url.Values{}
	form.Set("store_id", g.cfg.StoreID)
	form.Set("store_passwd", g.cfg.StorePass)
	form.Set("total_amount", req.Amount.StringFixed(2))
	form.Set("currency", req.Currency)
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("emi_option", "0")
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_phone", req.CustomerPhone)
	form.Set("cus_add1", req.CustomerAddr)
	form.Set("cus_city", "Dhaka")
	form.Set("cus_country", "Bangladesh")
	form.Set("shipping_method", "NO")
	form.Set("product_name", "Order Products")
	form.Set("product_category", "Ecommerce")
	form.Set("product_profile", "general")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build session request: %v", ErrGatewayError, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: session request timed out", ErrGatewayError)
		}
		return nil, fmt.Errorf("%w: session request failed: %v", ErrGatewayError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read session response: %v", ErrGatewayError, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: session API returned status %d", ErrGatewayError, resp.StatusCode)
	}

	var out sslcommerzSessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: invalid session response: %v", ErrGatewayError, err)
	}
	if out.GatewayPageURL == "" {
		reason := out.FailedReason
		if reason == "" {
			reason = "missing GatewayPageURL"
		}
		return nil, fmt.Errorf("%w: %s", ErrGatewayError, reason)
	}

	return &SessionResult{GatewayURL: out.GatewayPageURL, SessionKey: out.SessionKey}, nil
}

// VerifySSLCommerzSignature checks verify_sign on an IPN or redirect form.
// The signed fields are the ones named in verify_key plus the md5 of the store
// password, sorted by name and joined as k=v pairs.
func VerifySSLCommerzSignature(form url.Values, storePass string) bool {
	sign := form.Get("verify_sign")
	keys := form.Get("verify_key")
	if sign == "" || keys == "" {
		return false
	}

	fields := map[string]string{"store_passwd": md5Hex(storePass)}
	for _, k := range strings.Split(keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			fields[k] = form.Get(k)
		}
	}

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, k := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return strings.EqualFold(md5Hex(b.String()), sign)
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
