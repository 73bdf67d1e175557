package helpers

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const transactionPrefix = "ORDER_"

var ErrMalformedTransactionID = errors.New("malformed transaction id")

// NewTransactionID returns ORDER_{orderID}_{yyyyMMddHHmmss}{4 random digits}.
func NewTransactionID(orderID uint, now time.Time) string {
	suffix := rand.Intn(9000) + 1000
	return fmt.Sprintf("%s%d_%s%d", transactionPrefix, orderID, now.Format("20060102150405"), suffix)
}

// ParseTransactionID extracts the order id from a gateway transaction id. The
// part after the second delimiter is opaque and may contain further underscores.
func ParseTransactionID(trxID string) (uint, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(trxID), transactionPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q lacks the %s prefix", ErrMalformedTransactionID, trxID, transactionPrefix)
	}

	idPart, suffix, ok := strings.Cut(rest, "_")
	if !ok || suffix == "" {
		return 0, fmt.Errorf("%w: %q has no suffix", ErrMalformedTransactionID, trxID)
	}
	if idPart == "" || strings.TrimLeft(idPart, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q has a non-numeric order id", ErrMalformedTransactionID, trxID)
	}

	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q has an invalid order id", ErrMalformedTransactionID, trxID)
	}
	return uint(id), nil
}
