package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brandgen/brandgen-go/internal/crypto"
)

const defaultTicketTTL = 24 * time.Hour

type DownloadOptions struct {
	// TicketSecret enables signed download tickets when non-empty.
	TicketSecret string
	TicketTTL    time.Duration
}

// Image is an opened upstream image body. The caller must close Body.
type Image struct {
	Body          io.ReadCloser
	ContentLength int64
}

// DownloadService proxies generated images back to the browser as attachments.
type DownloadService struct {
	client       *http.Client
	ticketSecret string
	ticketTTL    time.Duration
}

// NewDownloadService creates a new DownloadService.
func NewDownloadService(client *http.Client, opts DownloadOptions) *DownloadService {
	if client == nil {
		client = http.DefaultClient
	}
	ttl := opts.TicketTTL
	if ttl <= 0 {
		ttl = defaultTicketTTL
	}
	return &DownloadService{
		client:       client,
		ticketSecret: opts.TicketSecret,
		ticketTTL:    ttl,
	}
}

// TicketsEnabled reports whether downloads require a signed ticket.
func (s *DownloadService) TicketsEnabled() bool {
	return s.ticketSecret != ""
}

// IssueTickets signs one ticket per URL, in the same order. It returns nil
// when tickets are disabled.
func (s *DownloadService) IssueTickets(urls []string) ([]string, error) {
	if !s.TicketsEnabled() {
		return nil, nil
	}

	tickets := make([]string, len(urls))
	for i, u := range urls {
		t, err := crypto.GenerateTicket(u, s.ticketSecret, s.ticketTTL)
		if err != nil {
			return nil, fmt.Errorf("sign ticket: %w", err)
		}
		tickets[i] = t
	}
	return tickets, nil
}

// Authorize checks the ticket for imageURL when tickets are enabled.
func (s *DownloadService) Authorize(imageURL, ticket string) error {
	if !s.TicketsEnabled() {
		return nil
	}
	if ticket == "" {
		return ErrTicketRequired
	}
	_, err := crypto.ValidateTicket(ticket, imageURL, s.ticketSecret)
	return err
}

// Open validates imageURL and starts fetching it.
func (s *DownloadService) Open(ctx context.Context, imageURL string) (*Image, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, ErrImageURLRequired
	}

	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidImageURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: upstream status %s", ErrUpstreamFetch, resp.Status)
	}

	return &Image{Body: resp.Body, ContentLength: resp.ContentLength}, nil
}
