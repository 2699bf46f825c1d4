// Command smoke walks a running API through detect, humanize, usage and order creation.
//
//	API_BASE_URL=http://localhost:3000/api API_TOKEN=<jwt> go run ./cmd/smoke
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"raw-ai-be/pkg/quotamirror"

	"github.com/fatih/color"
)

const sample = "In today's world, technology is pivotal for every business. Furthermore, it is worth noting that " +
	"organizations must delve into the multifaceted landscape of innovation. Moreover, numerous companies " +
	"seamlessly leverage cutting-edge tools to unlock the full potential of their teams."

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

// Request helper
func sendRequest(baseURL, method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(baseURL, title, method, url, token string, body interface{}) {
	color.Yellow("\n%s", title)
	resp, out, err := sendRequest(baseURL, method, url, token, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("Status: %s", resp.Status)
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(out)
}

func main() {
	baseURL := strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}
	token := os.Getenv("API_TOKEN")

	color.Cyan("🚀 Starting RAW.AI API smoke test against %s\n", baseURL)

	step(baseURL, "[ANON] 1. Detect", "POST", "/detect", "", map[string]string{"text": sample})
	step(baseURL, "[ANON] 2. Humanize (lite)", "POST", "/humanize", "", map[string]string{"text": sample, "level": "lite"})

	if token == "" {
		color.Red("\n[SKIP] Authenticated steps skipped (API_TOKEN not set)")
		color.Cyan("\n✅ Smoke Sequence Complete")
		return
	}

	step(baseURL, "[USER] 3. Profile", "GET", "/user/profile", token, nil)

	mirror := quotamirror.New(strings.TrimSuffix(baseURL, "/api"), token, 0)
	color.Yellow("\n[USER] 4. Quota mirror")
	s, err := mirror.Summary(context.Background())
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		fmt.Printf("Plan: %s, used: %d, unbounded: %v, %.2f%%\n", s.Plan, s.Used, s.Unbounded, s.Percentage)
		fmt.Printf("Room for the sample: %v\n", s.Allows(len(strings.Fields(sample))))
	}

	step(baseURL, "[USER] 5. Humanize (pro)", "POST", "/humanize", token, map[string]string{"text": sample, "level": "pro"})
	step(baseURL, "[USER] 6. Create order (pro)", "POST", "/payment/create-order", token, map[string]string{"plan": "pro", "email": os.Getenv("API_EMAIL")})
	step(baseURL, "[USER] 7. Order history", "GET", "/payment/orders", token, nil)

	color.Cyan("\n✅ Smoke Sequence Complete")
}
