package med24

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/ezla-online/portal/internal/domain/model"
)

const bookingQueue = "urgent"

// TooManyRequestsError represents rate limiting signal from Med24.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client books visits on the telemedicine platform.
type Client interface {
	CreateVisit(ctx context.Context, req model.VisitRequest) (*model.Visit, error)
}

// Options carry account level booking parameters.
type Options struct {
	APIToken      string
	ServiceID     string
	ChannelKind   string
	BookingIntent string
	Timeout       time.Duration
}

// HTTPClient implements Client via the Med24 REST API.
type HTTPClient struct {
	baseURL    *url.URL
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
}

type patient struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PESEL       string `json:"pesel"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	HouseNumber string `json:"house_number"`
	FlatNumber  string `json:"flat_number,omitempty"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
}

type visitRequest struct {
	ChannelKind   string  `json:"channel_kind"`
	ServiceID     string  `json:"service_id"`
	Patient       patient `json:"patient"`
	ExternalTag   string  `json:"external_tag"`
	BookingIntent string  `json:"booking_intent"`
	Queue         string  `json:"queue"`
}

type visitResponse struct {
	ID     string          `json:"id"`
	Status json.RawMessage `json:"status"`
}

// NewHTTPClient creates Med24 client. A zero timeout falls back to 10 seconds.
func NewHTTPClient(baseURL string, opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse med24 url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("med24 url must be absolute")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		opts:    opts,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}, nil
}

// CreateVisit registers an urgent consultation for the patient.
func (c *HTTPClient) CreateVisit(ctx context.Context, in model.VisitRequest) (*model.Visit, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/visits")

	payload, err := json.Marshal(visitRequest{
		ChannelKind:   c.opts.ChannelKind,
		ServiceID:     c.opts.ServiceID,
		Patient:       toPatient(in.Patient),
		ExternalTag:   in.ExternalTag,
		BookingIntent: c.opts.BookingIntent,
		Queue:         bookingQueue,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.opts.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data visitResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		if data.ID == "" {
			return nil, fmt.Errorf("med24 response without visit id")
		}
		return &model.Visit{ID: data.ID, Status: data.Status}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("med24 request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("external_tag", in.ExternalTag),
			slog.String("body", string(body)))
		return nil, fmt.Errorf("med24 error: %s", resp.Status)
	}
}

func toPatient(p model.Profile) patient {
	return patient{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PESEL:       p.PESEL,
		DateOfBirth: p.DateOfBirth.Format(time.DateOnly),
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		HouseNumber: p.HouseNumber,
		FlatNumber:  p.FlatNumber,
		PostalCode:  p.PostalCode,
		City:        p.City,
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
