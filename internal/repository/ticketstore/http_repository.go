package ticketstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-scangate/internal/models"
	"github.com/vogiaan1904/ticketbottle-scangate/pkg/logger"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type httpRepository struct {
	cli     *http.Client
	baseURL string
	apiKey  string
	l       logger.Logger
}

func NewHTTPRepository(cfg Config, l logger.Logger) Repository {
	return &httpRepository{
		cli:     &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		l:       l,
	}
}

// wireTicket is the store's representation; statuses arrive raw and
// get normalized on ingestion.
type wireTicket struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
	BundleID       string  `json:"bundle_id"`
	ParentTicketID string  `json:"parent_ticket_id"`
	Price          float64 `json:"price"`
	AssignedName   string  `json:"assigned_name"`
	SectionName    string  `json:"section_name"`
	SideLabel      string  `json:"side_label"`
}

func (r *httpRepository) FetchTickets(ctx context.Context, eventID, seasonID string, ids []string) ([]models.Ticket, error) {
	endpoint := r.ticketsURL(eventID, seasonID)
	if len(ids) > 0 {
		q := url.Values{}
		q.Set("ids", strings.Join(ids, ","))
		endpoint += "?" + q.Encode()
	}

	var out struct {
		Tickets []wireTicket `json:"tickets"`
	}
	if err := r.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		r.l.Errorf(ctx, "ticketstore.httpRepository.FetchTickets: %v", err)
		return nil, err
	}

	tickets := make([]models.Ticket, 0, len(out.Tickets))
	for _, w := range out.Tickets {
		tickets = append(tickets, models.Ticket{
			ID:             w.ID,
			Type:           models.TicketType(strings.ToLower(w.Type)),
			Status:         models.ParseStatus(w.Status),
			BundleID:       w.BundleID,
			ParentTicketID: w.ParentTicketID,
			Price:          w.Price,
			AssignedName:   w.AssignedName,
			SectionName:    w.SectionName,
			SideLabel:      w.SideLabel,
		})
	}

	return tickets, nil
}

func (r *httpRepository) UpdateStatus(ctx context.Context, eventID, seasonID, ticketID string, st models.TicketStatus) error {
	endpoint := fmt.Sprintf("%s/%s", r.ticketsURL(eventID, seasonID), url.PathEscape(ticketID))
	body := map[string]string{"status": string(st)}

	if err := r.do(ctx, http.MethodPatch, endpoint, body, nil); err != nil {
		r.l.Errorf(ctx, "ticketstore.httpRepository.UpdateStatus: %v", err)
		return err
	}

	return nil
}

func (r *httpRepository) ConfirmBatch(ctx context.Context, eventID, seasonID string, ids []string, st models.TicketStatus) error {
	endpoint := r.ticketsURL(eventID, seasonID) + "/confirm"
	body := map[string]any{
		"ids":    ids,
		"status": string(st),
	}

	if err := r.do(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		r.l.Errorf(ctx, "ticketstore.httpRepository.ConfirmBatch: %v", err)
		return err
	}

	return nil
}

func (r *httpRepository) ticketsURL(eventID, seasonID string) string {
	return fmt.Sprintf("%s/events/%s/seasons/%s/tickets",
		r.baseURL, url.PathEscape(eventID), url.PathEscape(seasonID))
}

func (r *httpRepository) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.cli.Do(req)
	if err != nil {
		return fmt.Errorf("ticket store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ticket store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode ticket store response: %w", err)
		}
	}

	return nil
}
