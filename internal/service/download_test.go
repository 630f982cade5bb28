package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brandgen/brandgen-go/internal/crypto"
)

func TestDownloadOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("PNGDATA"))
	}))
	defer srv.Close()

	svc := NewDownloadService(srv.Client(), DownloadOptions{})

	img, err := svc.Open(context.Background(), srv.URL+"/logo.png")
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer img.Body.Close()

	body, _ := io.ReadAll(img.Body)
	if string(body) != "PNGDATA" {
		t.Errorf("body = %q", body)
	}

	if _, err := svc.Open(context.Background(), srv.URL+"/missing.png"); !errors.Is(err, ErrUpstreamFetch) {
		t.Errorf("Open() on 404 error = %v, want ErrUpstreamFetch", err)
	}
}

func TestDownloadOpenRejectsBadURLs(t *testing.T) {
	svc := NewDownloadService(nil, DownloadOptions{})

	tests := []struct {
		url  string
		want error
	}{
		{url: "", want: ErrImageURLRequired},
		{url: "   ", want: ErrImageURLRequired},
		{url: "file:///etc/passwd", want: ErrInvalidImageURL},
		{url: "gopher://example.com/x", want: ErrInvalidImageURL},
		{url: "https://", want: ErrInvalidImageURL},
		{url: "://bad", want: ErrInvalidImageURL},
	}

	for _, tt := range tests {
		if _, err := svc.Open(context.Background(), tt.url); !errors.Is(err, tt.want) {
			t.Errorf("Open(%q) error = %v, want %v", tt.url, err, tt.want)
		}
	}
}

func TestDownloadTicketsDisabled(t *testing.T) {
	svc := NewDownloadService(nil, DownloadOptions{})

	if svc.TicketsEnabled() {
		t.Fatal("tickets should be disabled without a secret")
	}
	tickets, err := svc.IssueTickets([]string{"https://img.example/1.png"})
	if err != nil || tickets != nil {
		t.Fatalf("IssueTickets() = %v, %v; want nil, nil", tickets, err)
	}
	if err := svc.Authorize("https://img.example/1.png", ""); err != nil {
		t.Fatalf("Authorize() unexpected error: %v", err)
	}
}

func TestDownloadTicketsEnabled(t *testing.T) {
	svc := NewDownloadService(nil, DownloadOptions{TicketSecret: "s3cret"})
	urls := []string{"https://img.example/1.png", "https://img.example/2.png"}

	tickets, err := svc.IssueTickets(urls)
	if err != nil {
		t.Fatalf("IssueTickets() unexpected error: %v", err)
	}
	if len(tickets) != len(urls) {
		t.Fatalf("expected %d tickets, got %d", len(urls), len(tickets))
	}

	if err := svc.Authorize(urls[0], tickets[0]); err != nil {
		t.Errorf("Authorize() matching ticket: %v", err)
	}
	if err := svc.Authorize(urls[0], tickets[1]); !errors.Is(err, crypto.ErrTicketURL) {
		t.Errorf("Authorize() swapped ticket error = %v, want ErrTicketURL", err)
	}
	if err := svc.Authorize(urls[0], ""); !errors.Is(err, ErrTicketRequired) {
		t.Errorf("Authorize() missing ticket error = %v, want ErrTicketRequired", err)
	}
}
