package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/payments"
)

func main() {
	url := flag.String("url", "http://localhost:8080/webhooks/payments", "Webhook URL")
	secret := flag.String("secret", os.Getenv("FRESHVEG_PAYMENTS_WEBHOOK_SECRET"), "Webhook secret")
	orderID := flag.String("order", "", "Order ID")
	status := flag.String("status", "paid", "Payment status (paid, failed, refunded)")
	amount := flag.Int64("amount", 0, "Amount in paise; must equal the order grand total for paid")
	provider := flag.String("provider", "upi", "Provider name")
	paymentID := flag.String("payment-id", "pay_"+uuid.NewString()[:8], "Provider payment ID")
	dryRun := flag.Bool("dry-run", false, "Only print signature header, don't send")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintf(os.Stderr, "Error: secret not provided and FRESHVEG_PAYMENTS_WEBHOOK_SECRET not set\n")
		os.Exit(1)
	}
	if *orderID == "" {
		fmt.Fprintf(os.Stderr, "Error: -order is required\n")
		os.Exit(1)
	}

	body, err := json.Marshal(payments.WebhookEvent{
		Provider:          *provider,
		ProviderPaymentID: *paymentID,
		OrderID:           *orderID,
		Status:            *status,
		AmountPaise:       *amount,
		Method:            *provider,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	sig := "sha256=" + payments.Sign([]byte(*secret), body)
	fmt.Printf("%s: %s\n", payments.SignatureHeader, sig)
	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(payments.SignatureHeader, sig)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
