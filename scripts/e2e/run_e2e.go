// Package main runs end-to-end checks against a running portfolio API.
//
// Scenarios cover:
//   - Health and welcome endpoints
//   - Availability lookup for a future date
//   - Booking rejection on a forged payment signature
//   - Signed booking (only when RAZORPAY_KEY_SECRET is set; creates a real event)
//   - Connect and pitch submissions
//   - Admin login and list projections without payment secrets
//
// Usage:
//
//	API_BASE_URL=... ADMIN_USERNAME=... ADMIN_PASSWORD=... go run scripts/e2e/run_e2e.go [scenario-name]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wolfman30/portfolio-api/internal/payments"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const (
	testEmail   = "e2e@example.com"
	bookingTime = "18:00"
)

var (
	apiBase        string
	adminUser      string
	adminPassword  string
	razorpaySecret string
	client         = &http.Client{Timeout: 30 * time.Second}
)

// ---------------------------------------------------------------------------
// Scenario definition
// ---------------------------------------------------------------------------

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type response struct {
	status int
	body   map[string]interface{}
	raw    string
}

func do(method, path, token, contentType string, body io.Reader) (*response, error) {
	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := &response{status: resp.StatusCode, raw: string(raw)}
	_ = json.Unmarshal(raw, &out.body)
	return out, nil
}

func postJSON(path string, payload interface{}) (*response, error) {
	body, _ := json.Marshal(payload)
	return do(http.MethodPost, path, "", "application/json", bytes.NewReader(body))
}

func login() (string, error) {
	resp, err := postJSON("/api/v1/admin/login", map[string]string{"username": adminUser, "password": adminPassword})
	if err != nil {
		return "", err
	}
	if resp.status != http.StatusOK {
		return "", fmt.Errorf("login returned %d: %s", resp.status, resp.raw)
	}
	token, _ := resp.body["access_token"].(string)
	return token, nil
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 14).Format("2006-01-02")
}

func bookingPayload(att map[string]string) map[string]interface{} {
	p := map[string]interface{}{
		"full_name":           "E2E Tester",
		"contact":             "9876543210",
		"email":               testEmail,
		"plan_name":           "Quick Call",
		"price":               499,
		"duration_minutes":    30,
		"selected_date":       futureDate(),
		"selected_start_time": bookingTime,
		"topic":               "End-to-end check",
		"payment_method":      "razorpay",
	}
	for k, v := range att {
		p[k] = v
	}
	return p
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func scenarioHealth(t *T) {
	resp, err := do(http.MethodGet, "/health", "", "", nil)
	if err != nil {
		t.fatalf("health: %v", err)
		return
	}
	t.check("health returns 200", resp.status == http.StatusOK)
	t.check("health reports ok", resp.body["status"] == "ok")

	resp, err = do(http.MethodGet, "/api/v1/pitch/health", "", "", nil)
	if err != nil {
		t.fatalf("pitch health: %v", err)
		return
	}
	t.check("pitch health returns OK", resp.body["status"] == "OK")
}

func scenarioAvailability(t *T) {
	resp, err := do(http.MethodGet, "/api/v1/mentorship/availability?meeting_date="+futureDate()+"&duration_minutes=60", "", "", nil)
	if err != nil {
		t.fatalf("availability: %v", err)
		return
	}
	t.check("availability returns 200", resp.status == http.StatusOK)
	slots, _ := resp.body["slots"].([]interface{})
	t.check("availability lists slots", len(slots) > 0)

	resp, _ = do(http.MethodGet, "/api/v1/mentorship/availability?meeting_date=nope&duration_minutes=60", "", "", nil)
	t.check("bad date is rejected", resp != nil && resp.status == http.StatusUnprocessableEntity)
}

func scenarioForgedSignature(t *T) {
	resp, err := postJSON("/api/v1/mentorship/book", bookingPayload(map[string]string{
		"razorpay_order_id":   "order_e2e",
		"razorpay_payment_id": "pay_e2e",
		"razorpay_signature":  strings.Repeat("0", 64),
	}))
	if err != nil {
		t.fatalf("book: %v", err)
		return
	}
	t.check("forged signature returns 400", resp.status == http.StatusBadRequest)
	t.check("error code is PAYMENT_REJECTED", resp.body["code"] == "PAYMENT_REJECTED")
}

func scenarioSignedBooking(t *T) {
	if razorpaySecret == "" {
		fmt.Println("    SKIP: RAZORPAY_KEY_SECRET not set")
		return
	}
	orderID := fmt.Sprintf("order_e2e_%d", time.Now().Unix())
	paymentID := fmt.Sprintf("pay_e2e_%d", time.Now().Unix())
	resp, err := postJSON("/api/v1/mentorship/book", bookingPayload(map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  payments.Sign(razorpaySecret, orderID, paymentID),
	}))
	if err != nil {
		t.fatalf("book: %v", err)
		return
	}
	switch resp.status {
	case http.StatusOK:
		t.check("booking confirmed", resp.body["status"] == "confirmed")
		link, _ := resp.body["event_link"].(string)
		t.check("event link returned", link != "")
	case http.StatusConflict:
		fmt.Println("    NOTE: slot already taken; rerun with a free slot")
		t.check("conflict carries SLOT_UNAVAILABLE", resp.body["code"] == "SLOT_UNAVAILABLE")
	default:
		t.fatalf("unexpected status %d: %s", resp.status, resp.raw)
	}
}

func scenarioConnect(t *T) {
	resp, err := postJSON("/api/v1/connect", map[string]string{
		"name":    "E2E Tester",
		"email":   testEmail,
		"purpose": "Collaboration",
		"message": "Checking the connect form end to end.",
	})
	if err != nil {
		t.fatalf("connect: %v", err)
		return
	}
	t.check("connect returns 201", resp.status == http.StatusCreated)
	id, _ := resp.body["id"].(string)
	t.check("connect returns id", id != "")

	resp, _ = postJSON("/api/v1/connect", map[string]string{"name": "E"})
	t.check("invalid connect is rejected", resp != nil && resp.status == http.StatusUnprocessableEntity)
}

func scenarioPitch(t *T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":                "E2E Tester",
		"company_name":        "E2E Labs",
		"sector":              "Testing",
		"investment_required": "10 lakh",
		"email":               testEmail,
		"contact_number":      "9876543210",
		"pitch_summary":       "An end-to-end pitch submitted by the smoke suite.",
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	fw, _ := mw.CreateFormFile("proposal_file", "deck.txt")
	_, _ = fw.Write([]byte("e2e proposal"))
	_ = mw.Close()

	resp, err := do(http.MethodPost, "/api/v1/pitch", "", mw.FormDataContentType(), &buf)
	if err != nil {
		t.fatalf("pitch: %v", err)
		return
	}
	t.check("pitch returns 201", resp.status == http.StatusCreated)
	t.check("pitch reports file", resp.body["has_file"] == true)
}

func scenarioAdminLists(t *T) {
	for _, path := range []string{"/api/v1/mentorship", "/api/v1/connect", "/api/v1/pitch"} {
		resp, _ := do(http.MethodGet, path, "", "", nil)
		t.check(path+" requires a token", resp != nil && resp.status == http.StatusUnauthorized)
	}

	token, err := login()
	if err != nil {
		t.fatalf("login: %v", err)
		return
	}
	for _, path := range []string{"/api/v1/mentorship?limit=5", "/api/v1/connect?limit=5", "/api/v1/pitch?limit=5"} {
		resp, err := do(http.MethodGet, path, token, "", nil)
		if err != nil {
			t.fatalf("%s: %v", path, err)
			continue
		}
		t.check(path+" returns 200", resp.status == http.StatusOK)
		if strings.HasPrefix(path, "/api/v1/mentorship") {
			t.check("mentorship list hides signatures", !strings.Contains(resp.raw, "razorpay_signature"))
			t.check("mentorship list hides order ids", !strings.Contains(resp.raw, "razorpay_order_id"))
		}
	}
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	adminUser = os.Getenv("ADMIN_USERNAME")
	adminPassword = os.Getenv("ADMIN_PASSWORD")
	razorpaySecret = os.Getenv("RAZORPAY_KEY_SECRET")
	if apiBase == "" || adminUser == "" || adminPassword == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL, ADMIN_USERNAME and ADMIN_PASSWORD required")
		os.Exit(1)
	}

	scenarios := []scenario{
		{"health", scenarioHealth},
		{"availability", scenarioAvailability},
		{"forged-signature", scenarioForgedSignature},
		{"signed-booking", scenarioSignedBooking},
		{"connect", scenarioConnect},
		{"pitch", scenarioPitch},
		{"admin-lists", scenarioAdminLists},
	}

	// Filter by name if argument provided
	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	scenarioResults := make([]string, 0)

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "PASS"
		if t.failed > 0 {
			status = "FAIL"
		}
		scenarioResults = append(scenarioResults, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range scenarioResults {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		fmt.Println("\nSOME CHECKS FAILED")
		os.Exit(1)
	}
	fmt.Println("\nALL CHECKS PASSED")
}
