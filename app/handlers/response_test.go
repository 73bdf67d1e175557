package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrAlreadyConfirmed, http.StatusOK},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrInvalidState, http.StatusBadRequest},
		{services.ErrInsufficientStock, http.StatusBadRequest},
		{services.ErrValidation, http.StatusBadRequest},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrGatewayError, http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", services.ErrNotFound), http.StatusNotFound},
		{errors.New("database is gone"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func writeErr(err error) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), render.New(), zap.NewNop(), err)
	return rec
}

func TestWriteError(t *testing.T) {
	rec := writeErr(&services.DetailError{Kind: services.ErrNotFound, Detail: "Order not found"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Order not found"}`, rec.Body.String())

	rec = writeErr(errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rec.Body.String())

	rec = writeErr(services.ErrAlreadyConfirmed)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Bill payment already cleared."}`, rec.Body.String())

	rec = writeErr(services.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"detail":"Forbidden"}`, rec.Body.String())
}

type sample struct {
	OrderID uint   `json:"order_id" validate:"required"`
	Method  string `json:"method" validate:"required,max=5"`
}

func decode(body string) (*httptest.ResponseRecorder, bool) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dst sample
	ok := DecodeAndValidate(rec, req, render.New(), validator.New(), &dst)
	return rec, ok
}

func TestDecodeAndValidate(t *testing.T) {
	_, ok := decode(`{"order_id":1,"method":"bkash"}`)
	assert.True(t, ok)

	for _, body := range []string{``, `{`, `{"order_id":1,"method":"bkash","extra":1}`, `{"method":"bkash"}`, `{"order_id":1,"method":"toolong"}`} {
		rec, ok := decode(body)
		assert.False(t, ok, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		assert.Contains(t, rec.Body.String(), `"detail"`, body)
	}
}

func TestPathID(t *testing.T) {
	rnd := render.New()
	var got uint
	router := mux.NewRouter()
	router.HandleFunc("/orders/{order_id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := PathID(w, r, rnd, "order_id")
		if ok {
			got = id
			w.WriteHeader(http.StatusNoContent)
		}
	})

	for path, want := range map[string]int{"/orders/7": http.StatusNoContent, "/orders/0": http.StatusUnprocessableEntity, "/orders/abc": http.StatusUnprocessableEntity} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
	assert.Equal(t, uint(7), got)
}
