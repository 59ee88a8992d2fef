package qstash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	var (
		gotPath    string
		gotAuth    string
		gotRetries string
		gotBody    string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRetries = r.Header.Get("Upstash-Retries")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		fmt.Fprint(w, `{"messageId":"msg_1"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL + "/", Token: " secret ", Retries: 2})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	id, err := client.Publish(context.Background(), "https://hooks.example.com/orders", []byte(`{"order_id":"ORD-1"}`))
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if id != "msg_1" {
		t.Fatalf("Publish() = %q", id)
	}
	if gotPath != "/v2/publish/https://hooks.example.com/orders" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" || gotRetries != "2" {
		t.Fatalf("headers auth=%q retries=%q", gotAuth, gotRetries)
	}
	if gotBody != `{"order_id":"ORD-1"}` {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestPublishErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid token"}`)
	}))
	t.Cleanup(server.Close)

	client := MustNew(Config{URL: server.URL, Token: "bad"})
	if _, err := client.Publish(context.Background(), "https://hooks.example.com/orders", nil); err == nil {
		t.Fatal("expected error for unauthorized response")
	}
	if _, err := client.Publish(context.Background(), "not a url", nil); err == nil {
		t.Fatal("expected error for invalid destination")
	}
}

func TestPublishRejectsUndecodableSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `<html>gateway</html>`)
	}))
	t.Cleanup(server.Close)

	client := MustNew(Config{URL: server.URL, Token: "secret"})
	_, err := client.Publish(context.Background(), "https://hooks.example.com/orders", nil)
	if err == nil || !strings.Contains(err.Error(), "decode qstash response") {
		t.Fatalf("Publish() error = %v, want decode failure", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "https://qstash.upstash.io", Token: ""}); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := NewClient(Config{URL: "::", Token: "t"}); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
