package med24

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ezla-online/portal/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testRequest() model.VisitRequest {
	return model.VisitRequest{
		ExternalTag: "EZ-261014-ABC123",
		Patient: model.Profile{
			FirstName:   "Jan",
			LastName:    "Kowalski",
			PESEL:       "44051401359",
			DateOfBirth: time.Date(1944, 5, 14, 0, 0, 0, 0, time.UTC),
			Email:       "jan@example.com",
			PhoneNumber: "600700800",
			PostalCode:  "00-001",
			City:        "Warszawa",
		},
	}
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", Options{}, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", Options{}, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestCreateVisitSendsBooking(t *testing.T) {
	var got visitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/base/api/v1/visits" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"v-42","status":{"state":"new"}}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL+"/base", Options{
		APIToken:      "secret",
		ServiceID:     "svc",
		ChannelKind:   "ezla_web",
		BookingIntent: "sick_leave",
	}, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	visit, err := client.CreateVisit(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if visit.ID != "v-42" || string(visit.Status) != `{"state":"new"}` {
		t.Fatalf("unexpected visit: %+v", visit)
	}
	if got.Queue != "urgent" || got.ServiceID != "svc" || got.ExternalTag != "EZ-261014-ABC123" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Patient.DateOfBirth != "1944-05-14" || got.Patient.PESEL != "44051401359" {
		t.Fatalf("unexpected patient payload: %+v", got.Patient)
	}
}

func TestCreateVisitHandlesErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		body       string
		rateLimit  bool
	}{
		{name: "too many requests", statusCode: http.StatusTooManyRequests, header: http.Header{"Retry-After": []string{"5"}}, rateLimit: true},
		{name: "server error", statusCode: http.StatusInternalServerError, body: "boom"},
		{name: "missing id", statusCode: http.StatusOK, body: `{"status":{}}`},
		{name: "malformed body", statusCode: http.StatusOK, body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewHTTPClient(srv.URL, Options{}, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}
			_, err = client.CreateVisit(context.Background(), testRequest())
			if err == nil {
				t.Fatal("expected error")
			}
			var tm TooManyRequestsError
			if errors.As(err, &tm) != tt.rateLimit {
				t.Fatalf("unexpected rate limit classification for %v", err)
			}
			if tt.rateLimit && tm.RetryAfter != 5*time.Second {
				t.Fatalf("expected retry after 5s, got %v", tm.RetryAfter)
			}
		})
	}
}

func TestCreateVisitLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, Options{}, slog.New(handler))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.CreateVisit(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestParseRetryAfter(t *testing.T) {
	httpTime := time.Now().Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= 0 || got > 3*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
