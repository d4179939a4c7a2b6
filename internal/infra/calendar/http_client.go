package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/models"
)

// HTTPClient talks to a free-busy calendar service over JSON. Every call is
// bounded by the client timeout; transport and server failures come back
// wrapping domain.ErrCalendarUnavailable so callers can apply their
// fail-closed or degrade policy.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPClient(baseURL, token string, timeout time.Duration, log *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type busyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type freeBusyResponse struct {
	Busy []busyInterval `json:"busy"`
}

func (c *HTTPClient) BusyIntervalsInRange(
	ctx context.Context,
	staff *models.StaffMember,
	window domain.Interval,
) ([]domain.Interval, error) {

	if staff.CalendarRef == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("calendar", staff.CalendarRef)
	q.Set("from", window.Start.UTC().Format(time.RFC3339))
	q.Set("to", window.End.UTC().Format(time.RFC3339))

	var out freeBusyResponse
	if err := c.get(ctx, "/v1/freebusy?"+q.Encode(), &out); err != nil {
		return nil, err
	}

	intervals := make([]domain.Interval, 0, len(out.Busy))
	for _, b := range out.Busy {
		iv, err := domain.NewInterval(b.Start, b.End)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed busy interval", domain.ErrCalendarUnavailable)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

type createEventRequest struct {
	Calendar    string    `json:"calendar"`
	Reference   uuid.UUID `json:"reference"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
}

type createEventResponse struct {
	ID string `json:"id"`
}

func (c *HTTPClient) CreateEvent(
	ctx context.Context,
	staff *models.StaffMember,
	ap *models.Appointment,
) (string, error) {

	if staff.CalendarRef == "" {
		return "", nil
	}

	body := createEventRequest{
		Calendar:    staff.CalendarRef,
		Reference:   ap.Reference,
		Start:       ap.StartTime.UTC(),
		End:         ap.EndTime.UTC(),
		Description: ap.Notes,
	}

	var out createEventResponse
	if err := c.post(ctx, "/v1/events", body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *HTTPClient) DeleteEvent(
	ctx context.Context,
	staff *models.StaffMember,
	eventID string,
) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/events/"+url.PathEscape(eventID), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()

	// A missing event means the cleanup goal already holds.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: delete returned %d", domain.ErrCalendarUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)
	return c.do(req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCalendarUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Warn("calendar request failed",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: status %d", domain.ErrCalendarUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: bad payload: %v", domain.ErrCalendarUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// Compile-time check
var _ domain.Calendar = (*HTTPClient)(nil)
