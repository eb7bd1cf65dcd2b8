package services

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/configs"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

type PaymentOutcome string

const (
	OutcomePending PaymentOutcome = "pending"
	OutcomeSuccess PaymentOutcome = "success"
	OutcomeFail    PaymentOutcome = "fail"
	OutcomeCancel  PaymentOutcome = "cancel"
)

// MidtransNotification is the body Midtrans posts to the notification URL.
// Only the order id is trusted; the rest is re-read from the Core API.
type MidtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	Currency          string `json:"currency"`
}

type snapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type transactionChecker interface {
	CheckTransaction(param string) (*coreapi.TransactionStatusResponse, *midtrans.Error)
}

// TransactionVerifier resolves a gateway transaction id into its final outcome.
type TransactionVerifier interface {
	VerifyTransaction(ctx context.Context, transactionID string) (PaymentOutcome, error)
}

type MidtransGateway struct {
	snap snapCreator
	core transactionChecker
}

func NewMidtransGateway(snapClient snapCreator, coreClient transactionChecker) *MidtransGateway {
	return &MidtransGateway{snap: snapClient, core: coreClient}
}

func NewMidtransGatewayFromEnv(env configs.ENV) *MidtransGateway {
	snapClient, coreClient := configs.NewMidtransClients(env)
	return NewMidtransGateway(&snapClient, &coreClient)
}

func (g *MidtransGateway) Name() string { return GatewayMidtrans }

// CreateSession uses the transaction id as the Midtrans order id, so every
// attempt is a distinct Snap transaction.
func (g *MidtransGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	gross := GrossAmount(req.Amount)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.TransactionID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Payer.Username,
			Email: req.Payer.Email,
			Phone: req.Payer.Phone,
			ShipAddr: &midtrans.CustomerAddress{
				FName:   req.Payer.Username,
				Address: req.ShippingAddress,
				City:    req.ShippingCity,
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: req.SuccessURL,
		},
		EnabledPayments: snap.AllSnapPaymentType,
		CustomField1:    req.OrderID,
		CustomField2:    req.Payer.ID,
	}
	if items, ok := midtransItems(req.Items, gross); ok {
		snapReq.Items = &items
	}

	resp, merr := g.snap.CreateTransaction(snapReq)
	if merr != nil {
		log.Printf("MidtransGateway.CreateSession: order %s: %v", req.OrderID, merr.Error())
		return nil, apperr.Gateway(fmt.Errorf("midtrans: %s", merr.Error()), "unable to create payment session")
	}
	if resp == nil || resp.RedirectURL == "" {
		return nil, apperr.Gateway(fmt.Errorf("midtrans returned no redirect url"), "unable to create payment session")
	}

	log.Printf("MidtransGateway.CreateSession: snap transaction %s opened for order %s", req.TransactionID, req.OrderID)
	return &Session{RedirectURL: resp.RedirectURL, Reference: resp.Token}, nil
}

// midtransItems is only sent when the rounded lines add up to the gross
// amount, otherwise Snap rejects the request.
func midtransItems(items []SessionItem, gross int64) ([]midtrans.ItemDetails, bool) {
	if len(items) == 0 {
		return nil, false
	}
	var sum int64
	out := make([]midtrans.ItemDetails, 0, len(items))
	for _, item := range items {
		price := item.Price.Round(0).IntPart()
		out = append(out, midtrans.ItemDetails{
			ID:       item.ID,
			Name:     item.Name,
			Price:    price,
			Qty:      int32(item.Quantity),
			Category: item.Category,
		})
		sum += price * int64(item.Quantity)
	}
	return out, sum == gross
}

func (g *MidtransGateway) VerifyTransaction(ctx context.Context, transactionID string) (PaymentOutcome, error) {
	status, merr := g.core.CheckTransaction(transactionID)
	if merr != nil {
		log.Printf("MidtransGateway.VerifyTransaction: %s: %v", transactionID, merr.Error())
		return "", apperr.Gateway(fmt.Errorf("midtrans: %s", merr.Error()), "unable to verify transaction")
	}
	if status == nil {
		return "", apperr.Gateway(fmt.Errorf("midtrans returned no status"), "unable to verify transaction")
	}
	if status.StatusCode == "404" {
		return "", apperr.NotFound("transaction %s not found", transactionID)
	}

	return MidtransOutcome(status.TransactionStatus, status.FraudStatus), nil
}

// MidtransOutcome maps a Core API transaction status onto a callback outcome.
func MidtransOutcome(transactionStatus, fraudStatus string) PaymentOutcome {
	switch transactionStatus {
	case "capture", "settlement":
		if fraudStatus == "" || fraudStatus == "accept" {
			return OutcomeSuccess
		}
		return OutcomeFail
	case "deny", "expire", "cancel":
		return OutcomeCancel
	case "failure":
		return OutcomeFail
	default:
		return OutcomePending
	}
}

// GrossAmount is what Midtrans charges for a decimal total.
func GrossAmount(amount decimal.Decimal) int64 {
	return amount.Round(0).IntPart()
}
