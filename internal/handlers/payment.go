package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/volunhub-dev/volunhub/internal/payments"
	"github.com/volunhub-dev/volunhub/internal/utils"
)

type CheckoutRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required,len=3"`
	Items    string  `json:"items"`
}

// InitiateCheckout hands the donation off to the hosted gateway checkout.
// The gateway is opaque to the platform; this only returns the redirect
// parameters with the integrity hash.
func InitiateCheckout(ctx *gin.Context) {
	var body CheckoutRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	gateway := payments.NewGatewayFromEnv()
	orderID := uuid.NewString()

	ctx.JSON(http.StatusOK, gin.H{
		"checkout_url": gateway.CheckoutURL,
		"merchant_id":  gateway.MerchantID,
		"order_id":     orderID,
		"amount":       fmt.Sprintf("%.2f", body.Amount),
		"currency":     body.Currency,
		"items":        body.Items,
		"hash":         gateway.CheckoutHash(orderID, body.Amount, body.Currency),
		"return_url":   gateway.ReturnURL,
		"cancel_url":   gateway.CancelURL,
		"notify_url":   gateway.NotifyURL,
		"customer_id":  actor.ID,
	})
}

// PaymentNotify receives the gateway's asynchronous callback. Only the
// signature is verified here; settlement is the gateway's problem.
func PaymentNotify(ctx *gin.Context) {
	merchantID := ctx.PostForm("merchant_id")
	orderID := ctx.PostForm("order_id")
	amount := ctx.PostForm("payhere_amount")
	currency := ctx.PostForm("payhere_currency")
	statusCode := ctx.PostForm("status_code")
	md5sig := ctx.PostForm("md5sig")

	gateway := payments.NewGatewayFromEnv()

	if !gateway.VerifyNotification(merchantID, orderID, amount, currency, statusCode, md5sig) {
		log.Printf("Rejected payment notification with bad signature for order %s", orderID)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	log.Printf("Payment notification for order %s: status %s", orderID, statusCode)
	ctx.Status(http.StatusOK)
}
