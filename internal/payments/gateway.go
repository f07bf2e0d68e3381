// Package payments builds the hosted-checkout handoff for the external
// payment gateway. The gateway itself is opaque: this package only computes
// the integrity hash for the redirect and verifies the async notify
// callback signature. No payment state machine lives here.
package payments

import (
	"crypto/md5"
	"crypto/subtle"
	"fmt"
	"os"
)

type Gateway struct {
	MerchantID     string
	merchantSecret string
	CheckoutURL    string
	ReturnURL      string
	CancelURL      string
	NotifyURL      string
}

func NewGatewayFromEnv() Gateway {
	return Gateway{
		MerchantID:     os.Getenv("PAYHERE_MERCHANT_ID"),
		merchantSecret: os.Getenv("PAYHERE_MERCHANT_SECRET"),
		CheckoutURL:    getEnv("PAYHERE_CHECKOUT_URL", "https://sandbox.payhere.lk/pay/checkout"),
		ReturnURL:      os.Getenv("PAYHERE_RETURN_URL"),
		CancelURL:      os.Getenv("PAYHERE_CANCEL_URL"),
		NotifyURL:      os.Getenv("PAYHERE_NOTIFY_URL"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func upperMD5(s string) string {
	return fmt.Sprintf("%X", md5.Sum([]byte(s)))
}

// CheckoutHash computes the integrity hash the gateway expects on the
// redirect: MD5(merchant_id + order_id + amount + currency + MD5(secret)),
// with amount fixed to two decimals and both digests uppercased.
func (g Gateway) CheckoutHash(orderID string, amount float64, currency string) string {
	inner := upperMD5(g.merchantSecret)
	data := fmt.Sprintf("%s%s%.2f%s%s", g.MerchantID, orderID, amount, currency, inner)
	return upperMD5(data)
}

// VerifyNotification checks the md5sig of the gateway's asynchronous notify
// callback. The callback echoes the amount as formatted by the gateway, so
// the raw string is hashed rather than a reparsed float.
func (g Gateway) VerifyNotification(merchantID, orderID, amount, currency, statusCode, receivedSig string) bool {
	if g.merchantSecret == "" {
		return false
	}

	inner := upperMD5(g.merchantSecret)
	expected := upperMD5(fmt.Sprintf("%s%s%s%s%s%s", merchantID, orderID, amount, currency, statusCode, inner))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(receivedSig)) == 1
}
