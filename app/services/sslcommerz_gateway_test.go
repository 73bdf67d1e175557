package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRequest() SessionRequest {
	return SessionRequest{
		TransactionID: "ORDER_5_202501011200001234",
		OrderID:       5,
		Amount:        decimal.RequireFromString("25.5"),
		Currency:      "BDT",
		CustomerName:  "rahim",
		CustomerEmail: "rahim@example.com",
		CustomerPhone: "01711111111",
		CustomerAddr:  "N/A",
		SuccessURL:    "http://localhost/ssl-success",
		FailURL:       "http://localhost/ssl-fail",
		CancelURL:     "http://localhost/ssl-cancel",
	}
}

func TestSSLCommerzGateway_CreateSession(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"SUCCESS","sessionkey":"abc","GatewayPageURL":"https://sandbox.sslcommerz.com/pay/abc"}`))
	}))
	defer srv.Close()

	g := NewSSLCommerzGateway(SSLCommerzConfig{StoreID: "store", StorePass: "pass", Endpoint: srv.URL}, srv.Client())
	res, err := g.CreateSession(context.Background(), sessionRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://sandbox.sslcommerz.com/pay/abc", res.GatewayURL)
	assert.Equal(t, "abc", res.SessionKey)
	assert.Equal(t, "store", form.Get("store_id"))
	assert.Equal(t, "25.50", form.Get("total_amount"))
	assert.Equal(t, "ORDER_5_202501011200001234", form.Get("tran_id"))
	assert.Equal(t, "http://localhost/ssl-success", form.Get("success_url"))
}

func TestSSLCommerzGateway_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"failed status", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"FAILED","failedreason":"Store Credential Error"}`))
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			g := NewSSLCommerzGateway(SSLCommerzConfig{Endpoint: srv.URL}, srv.Client())
			_, err := g.CreateSession(ctx, sessionRequest())
			assert.ErrorIs(t, err, ErrGatewayError)
		})
	}
}

func TestSSLCommerzGateway_Endpoint(t *testing.T) {
	assert.Equal(t, sslcommerzSandboxURL, NewSSLCommerzGateway(SSLCommerzConfig{IsSandbox: true}, nil).endpoint())
	assert.Equal(t, sslcommerzLiveURL, NewSSLCommerzGateway(SSLCommerzConfig{}, nil).endpoint())
}

func TestVerifySSLCommerzSignature(t *testing.T) {
	form := url.Values{}
	form.Set("tran_id", "ORDER_5_202501011200001234")
	form.Set("val_id", "V1")
	form.Set("amount", "25.50")
	form.Set("verify_key", "amount,tran_id,val_id")
	// md5("amount=25.50&store_passwd=<md5(pass)>&tran_id=...&val_id=V1")
	payload := "amount=25.50&store_passwd=" + md5Hex("pass") + "&tran_id=ORDER_5_202501011200001234&val_id=V1"
	form.Set("verify_sign", md5Hex(payload))

	assert.True(t, VerifySSLCommerzSignature(form, "pass"))
	assert.False(t, VerifySSLCommerzSignature(form, "wrong"))

	form.Set("amount", "1.00")
	assert.False(t, VerifySSLCommerzSignature(form, "pass"))

	assert.False(t, VerifySSLCommerzSignature(url.Values{}, "pass"))
}
