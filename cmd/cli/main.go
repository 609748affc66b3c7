package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	tenant  string
	actor   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledger-cli",
		Short: "Ledger CLI tool",
		Long:  `A command line interface for interacting with the ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&tenant, "tenant", "", "Tenant ID (required)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "cli", "Actor ID recorded on mutations")
	rootCmd.MarkPersistentFlagRequired("tenant")

	rootCmd.AddCommand(balanceCmd(), mutateCmd("accrue", "Accrue loyalty points", "/api/v1/loyalty/accrue"),
		mutateCmd("redeem", "Redeem loyalty points", "/api/v1/loyalty/redeem"),
		mutateCmd("charge", "Charge a credit account", "/api/v1/credit/charges"),
		mutateCmd("payment", "Record a credit account payment", "/api/v1/credit/payments"),
		consistencyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balanceCmd() *cobra.Command {
	var customer, program string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an account balance",
		Run: func(cmd *cobra.Command, args []string) {
			url := baseURL + "/api/v1/accounts?customer_id=" + customer
			if program != "" {
				url += "&program_id=" + program
			}

			body := doRequest(http.MethodGet, url, nil, "")
			printJSON(body)
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID (required)")
	cmd.Flags().StringVar(&program, "program", "", "Program ID (omit for the credit account)")
	cmd.MarkFlagRequired("customer")

	return cmd
}

func mutateCmd(use, short, path string) *cobra.Command {
	var (
		customer       string
		program        string
		amount         int64
		orderID        string
		description    string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]any{
				"customer_id": customer,
				"amount":      amount,
			}
			if program != "" {
				payload["program_id"] = program
			}
			if orderID != "" {
				payload["order_id"] = orderID
			}
			if description != "" {
				payload["description"] = description
			}

			data, _ := json.Marshal(payload)

			body := doRequest(http.MethodPost, baseURL+path, data, idempotencyKey)
			printJSON(body)
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID (required)")
	cmd.Flags().StringVar(&program, "program", "", "Program ID (omit for the credit account)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in smallest units (required)")
	cmd.Flags().StringVar(&orderID, "order", "", "Order ID to link")
	cmd.Flags().StringVar(&description, "description", "", "Human readable description")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	cmd.MarkFlagRequired("customer")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func consistencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			body := doRequest(http.MethodGet, baseURL+"/api/v1/ledger/consistency", nil, "")

			var report struct {
				Consistent bool `json:"consistent"`
			}
			if err := json.Unmarshal(body, &report); err != nil {
				fmt.Printf("Failed to parse response: %v\n", err)
				os.Exit(1)
			}

			if report.Consistent {
				fmt.Println("Consistency check PASSED")
			} else {
				fmt.Println("Consistency check FAILED")
				printJSON(body)
				os.Exit(1)
			}
		},
	}
}

func doRequest(method, url string, payload []byte, idempotencyKey string) []byte {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenant)
	req.Header.Set("X-Actor-ID", actor)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func printJSON(body []byte) {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(out.String())
}
