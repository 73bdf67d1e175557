package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type Message struct {
	Message string `json:"message"`
}

type errorBody struct {
	Detail interface{} `json:"detail"`
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrAlreadyConfirmed):
		return http.StatusOK
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrGatewayError):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as {"detail": ...}. An already confirmed bill is not a
// failure and is answered with {"message": ...}.
func WriteError(w http.ResponseWriter, r *http.Request, rnd *render.Render, log *zap.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusOK {
		rnd.JSON(w, status, Message{Message: services.Detail(err, "Bill payment already cleared.")})
		return
	}

	fallback := http.StatusText(status)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("request_id", helpers.RequestID(r)),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		if status == http.StatusInternalServerError {
			fallback = "Internal server error"
		}
	}
	rnd.JSON(w, status, errorBody{Detail: services.Detail(err, fallback)})
}

// DecodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 422 response itself and reports whether the caller may go on.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, rnd *render.Render, v *validator.Validate, dst interface{}) bool {
	if err := helpers.DecodeJSON(r, dst); err != nil {
		rnd.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return false
	}
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			rnd.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: helpers.FormatValidationErrors(verrs)})
			return false
		}
		rnd.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: err.Error()})
		return false
	}
	return true
}

// PathID parses a positive numeric mux variable, writing a 422 when it is not.
func PathID(w http.ResponseWriter, r *http.Request, rnd *render.Render, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		rnd.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}
