//go:build e2e

// Package e2e drives a running campusmart server over real HTTP, cookies
// included, the way a browser would. Start the server (with its Postgres
// and Redis) before running with -tags e2e.
package e2e

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("CAMPUSMART_BASE_URL", "http://localhost:8080")

	if _, err := http.Get(baseURL + "/healthz"); err != nil {
		t.Skipf("no server at %s: %v", baseURL, err)
	}

	client := newBrowser(t)

	// Unique per run so reruns against the same database do not collide.
	email := fmt.Sprintf("e2e-%d@campus.edu", time.Now().UnixNano())
	password := "hunter2hunter2"

	// Guest view: auth forms, no post form.
	page := getPage(t, client, baseURL)
	if !strings.Contains(page, `id="loginForm"`) {
		t.Fatal("guest page missing login form")
	}
	if strings.Contains(page, `id="postItemForm"`) {
		t.Fatal("guest page shows the post-item form")
	}

	// Signup does not log in.
	postForm(t, client, baseURL+"/auth/signup", url.Values{
		"email":    {email},
		"password": {password},
		"username": {"e2e-runner"},
	})
	page = getPage(t, client, baseURL)
	if strings.Contains(page, `id="postItemForm"`) {
		t.Fatal("signup started a session")
	}

	// Login flips the page to the account view.
	postForm(t, client, baseURL+"/auth/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	page = getPage(t, client, baseURL)
	if !strings.Contains(page, `id="postItemForm"`) {
		t.Fatal("login did not unlock the post-item form")
	}
	if !strings.Contains(page, "e2e-runner") {
		t.Fatal("account header missing the username")
	}

	// Post an item with an image and find it in the grid.
	title := fmt.Sprintf("E2E desk lamp %d", time.Now().UnixNano())
	postItem(t, client, baseURL+"/listings", map[string]string{
		"title":            title,
		"category":         "furniture",
		"transaction_kind": "sell",
		"price":            "450",
	}, "lamp.png", []byte("not-really-a-png"))

	page = getPage(t, client, baseURL)
	if !strings.Contains(page, title) {
		t.Fatal("posted item missing from grid")
	}
	if !strings.Contains(page, "&#8377;450") {
		t.Fatal("price missing from posted item")
	}

	// Logout reverts to the guest view.
	postForm(t, client, baseURL+"/auth/logout", url.Values{})
	page = getPage(t, client, baseURL)
	if strings.Contains(page, `id="postItemForm"`) {
		t.Fatal("logout did not revert to the guest view")
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func getPage(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	resp, err := client.Get(baseURL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	return string(body)
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) {
	t.Helper()
	resp, err := client.PostForm(target, form)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s status %d", target, resp.StatusCode)
	}
}

func postItem(t *testing.T, client *http.Client, target string, fields map[string]string, imageName string, imageData []byte) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if imageData != nil {
		fw, err := mw.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := fw.Write(imageData); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, target, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST %s status %d", target, resp.StatusCode)
	}
}
