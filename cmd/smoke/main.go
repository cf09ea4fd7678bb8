// Command smoke walks signup → predict → history → logout against a running
// server. The inference endpoint must be up as well.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var (
	ok   = color.New(color.FgGreen, color.Bold)
	fail = color.New(color.FgRed, color.Bold)
	info = color.New(color.FgCyan)
)

type step struct {
	name   string
	method string
	path   string
	form   url.Values
	expect func(status int, body string) error
}

func main() {
	baseURL := flag.String("base", "http://localhost:3000", "server base URL")
	flag.Parse()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar:     jar,
		Timeout: 30 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	username := "smoke-" + uuid.NewString()[:8]
	features := url.Values{}
	for i := 1; i <= 21; i++ {
		features.Set(fmt.Sprintf("feature_%d", i), "1")
	}

	steps := []step{
		{"health", http.MethodGet, "/healthz", nil, expectStatus(http.StatusOK, "")},
		{"guard redirects anonymous", http.MethodGet, "/history", nil, expectStatus(http.StatusFound, "")},
		{"signup", http.MethodPost, "/signup", url.Values{
			"username": {username},
			"name":     {"Smoke Test"},
			"password": {"secret123"},
		}, expectStatus(http.StatusOK, "Welcome")},
		{"duplicate signup", http.MethodPost, "/signup", url.Values{
			"username": {username},
			"password": {"secret123"},
		}, expectStatus(http.StatusOK, "Username already exists")},
		{"predict", http.MethodPost, "/predict", features, expectStatus(http.StatusOK, "Prediction")},
		{"history", http.MethodGet, "/history", nil, expectStatus(http.StatusOK, username)},
		{"logout", http.MethodGet, "/logout", nil, expectStatus(http.StatusFound, "")},
		{"guard after logout", http.MethodGet, "/predict", nil, expectStatus(http.StatusFound, "")},
	}

	info.Printf("Smoke test against %s as %s\n\n", *baseURL, username)

	failed := 0
	for _, s := range steps {
		status, body, err := send(client, *baseURL, s)
		if err == nil {
			err = s.expect(status, body)
		}
		if err != nil {
			failed++
			fail.Printf("  ✗ %-28s %v\n", s.name, err)
			continue
		}
		ok.Printf("  ✓ %-28s %d\n", s.name, status)
	}

	fmt.Println()
	if failed > 0 {
		fail.Printf("%d of %d steps failed\n", failed, len(steps))
		os.Exit(1)
	}
	ok.Printf("All %d steps passed\n", len(steps))
}

func send(client *http.Client, baseURL string, s step) (int, string, error) {
	var body io.Reader
	if s.form != nil {
		body = strings.NewReader(s.form.Encode())
	}
	req, err := http.NewRequest(s.method, baseURL+s.path, body)
	if err != nil {
		return 0, "", err
	}
	if s.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(respBody), err
}

func expectStatus(want int, contains string) func(int, string) error {
	return func(status int, body string) error {
		if status != want {
			return fmt.Errorf("status %d, want %d", status, want)
		}
		if contains != "" && !strings.Contains(body, contains) {
			return fmt.Errorf("body does not mention %q", contains)
		}
		return nil
	}
}
