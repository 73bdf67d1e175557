package services

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// SnapClient is the part of the midtrans snap client used here.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type MidtransGateway struct {
	client SnapClient
}

func NewMidtransGateway(client SnapClient) *MidtransGateway {
	return &MidtransGateway{client: client}
}

func (g *MidtransGateway) Name() string {
	return "midtrans"
}

func (g *MidtransGateway) CreateSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayError, err)
	}

	// Snap only accepts whole currency units.
	gross := req.Amount.Round(0).IntPart()

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.TransactionID,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    fmt.Sprintf("ORDER-%d", req.OrderID),
			Name:  "Order Products",
			Price: gross,
			Qty:   1,
		}},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
		EnabledPayments: snap.AllSnapPaymentType,
		Callbacks: &snap.Callbacks{
			Finish: req.SuccessURL,
		},
	}

	type result struct {
		resp *snap.Response
		err  *midtrans.Error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := g.client.CreateTransaction(snapReq)
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: snap request timed out", ErrGatewayError)
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: snap transaction failed: %s", ErrGatewayError, r.err.Message)
		}
		if r.resp == nil || r.resp.RedirectURL == "" || r.resp.Token == "" {
			return nil, fmt.Errorf("%w: snap returned no redirect url", ErrGatewayError)
		}
		return &SessionResult{GatewayURL: r.resp.RedirectURL, SessionKey: r.resp.Token}, nil
	}
}
