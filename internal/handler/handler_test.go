package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/brandgen/brandgen-go/internal/ideogram"
	"github.com/brandgen/brandgen-go/internal/model"
	"github.com/brandgen/brandgen-go/internal/service"
)

type stubProvider struct {
	prompts []string
	fail    error
}

func (p *stubProvider) Generate(_ context.Context, req ideogram.ImageRequest) (ideogram.ImageResponse, error) {
	p.prompts = append(p.prompts, req.Prompt)
	if p.fail != nil {
		return ideogram.ImageResponse{}, p.fail
	}
	return ideogram.ImageResponse{Data: []ideogram.Image{{URL: fmt.Sprintf("https://img.example/u%d.png", len(p.prompts))}}}, nil
}

func newBrandHandler(p *stubProvider, ticketSecret string) *BrandHandler {
	gen := service.NewGenerationService(p, service.GenerationOptions{})
	dl := service.NewDownloadService(nil, service.DownloadOptions{TicketSecret: ticketSecret})
	return NewBrandHandler(gen, dl, nil)
}

func postBrand(h *BrandHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-brand", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.HandleGenerate(rec, req)
	return rec
}

func TestHandleGenerate_Success(t *testing.T) {
	p := &stubProvider{}
	h := newBrandHandler(p, "")

	rec := postBrand(h, `{"firstName":"Jane","lastName":"Doe","suffix":"Team","style":"bold","brandTheme":"key"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	urls, ok := resp["imageUrls"].([]any)
	if !ok || len(urls) != 4 {
		t.Fatalf("imageUrls = %v", resp["imageUrls"])
	}
	if urls[0] != "https://img.example/u1.png" || urls[3] != "https://img.example/u4.png" {
		t.Errorf("unexpected url order: %v", urls)
	}
	if _, present := resp["downloadTickets"]; present {
		t.Error("downloadTickets should be omitted when tickets are disabled")
	}
	for _, prompt := range p.prompts {
		if !strings.Contains(prompt, `The text "Jane Doe Team"`) {
			t.Errorf("prompt missing branding text: %q", prompt)
		}
	}
}

func TestHandleGenerate_LegacyFlags(t *testing.T) {
	p := &stubProvider{}
	h := newBrandHandler(p, "")

	rec := postBrand(h, `{"prefix":true,"firstName":"Jane","lastName":"Doe","suffix":"Group","useAbbreviatedName":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(p.prompts[0], `The text "The JD Group"`) {
		t.Errorf("prompt = %q", p.prompts[0])
	}
}

func TestHandleGenerate_WithTickets(t *testing.T) {
	h := newBrandHandler(&stubProvider{}, "s3cret")

	rec := postBrand(h, `{"firstName":"Jane","suffix":"Team"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp model.GenerateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.DownloadTickets) != len(resp.ImageURLs) {
		t.Fatalf("tickets = %d, urls = %d", len(resp.DownloadTickets), len(resp.ImageURLs))
	}
}

func TestHandleGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fail       error
		wantStatus int
		wantError  string
	}{
		{name: "invalid json", body: `{`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "unknown name mode", body: `{"nameMode":"nope"}`, wantStatus: http.StatusBadRequest, wantError: "invalid request body"},
		{name: "missing suffix", body: `{"firstName":"Jane"}`, wantStatus: http.StatusBadRequest, wantError: "Missing required fields"},
		{name: "missing name", body: `{"suffix":"Team"}`, wantStatus: http.StatusBadRequest, wantError: "Missing required fields"},
		{
			name:       "provider error",
			body:       `{"firstName":"Jane","suffix":"Team"}`,
			fail:       &ideogram.APIError{StatusCode: 401, Status: "401 Unauthorized", Body: "bad key"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Image generation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newBrandHandler(&stubProvider{fail: tt.fail}, "")
			rec := postBrand(h, tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp model.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
			if tt.fail != nil && !strings.Contains(resp.Details, "bad key") {
				t.Errorf("details should carry provider payload, got %q", resp.Details)
			}
		})
	}
}

func TestHandleGenerate_BodyTooLarge(t *testing.T) {
	h := newBrandHandler(&stubProvider{}, "")
	body := `{"description":"` + strings.Repeat("x", 2<<20) + `"}`

	rec := postBrand(h, body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestErrorDetails(t *testing.T) {
	if got := errorDetails(service.ErrGenerationFailed); got != "Failed to generate any images" {
		t.Errorf("errorDetails(ErrGenerationFailed) = %q", got)
	}
	if got := errorDetails(fmt.Errorf("variation 2: %w", service.ErrProviderTimeout)); got != "Image provider timed out" {
		t.Errorf("errorDetails(timeout) = %q", got)
	}
	if got := errorDetails(errors.New("boom")); got != "boom" {
		t.Errorf("errorDetails(other) = %q", got)
	}
}

func downloadRequest(h *DownloadHandler, query url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/download-image?"+query.Encode(), nil)
	h.HandleDownload(rec, req)
	return rec
}

func TestHandleDownload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone.png" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("\x89PNG-bytes"))
	}))
	defer upstream.Close()

	h := NewDownloadHandler(service.NewDownloadService(upstream.Client(), service.DownloadOptions{}), nil)

	rec := downloadRequest(h, url.Values{"url": {upstream.URL + "/logo.png"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=brand-image.png" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != "\x89PNG-bytes" {
		t.Errorf("body = %q", rec.Body.String())
	}

	tests := []struct {
		name   string
		query  url.Values
		status int
	}{
		{name: "missing url", query: url.Values{}, status: http.StatusBadRequest},
		{name: "bad scheme", query: url.Values{"url": {"file:///etc/passwd"}}, status: http.StatusBadRequest},
		{name: "upstream failure", query: url.Values{"url": {upstream.URL + "/gone.png"}}, status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := downloadRequest(h, tt.query); rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandleDownload_Tickets(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("img"))
	}))
	defer upstream.Close()

	dl := service.NewDownloadService(upstream.Client(), service.DownloadOptions{TicketSecret: "s3cret"})
	h := NewDownloadHandler(dl, nil)
	imageURL := upstream.URL + "/a.png"

	if rec := downloadRequest(h, url.Values{"url": {imageURL}}); rec.Code != http.StatusForbidden {
		t.Fatalf("missing ticket: status = %d, want 403", rec.Code)
	}

	tickets, err := dl.IssueTickets([]string{imageURL})
	if err != nil {
		t.Fatalf("IssueTickets: %v", err)
	}
	if rec := downloadRequest(h, url.Values{"url": {imageURL}, "ticket": {tickets[0]}}); rec.Code != http.StatusOK {
		t.Fatalf("valid ticket: status = %d, want 200", rec.Code)
	}
	if rec := downloadRequest(h, url.Values{"url": {upstream.URL + "/b.png"}, "ticket": {tickets[0]}}); rec.Code != http.StatusForbidden {
		t.Fatalf("ticket for other url: status = %d, want 403", rec.Code)
	}
}
