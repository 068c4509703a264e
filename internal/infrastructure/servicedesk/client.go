// Package servicedesk reads ticket counts from ManageEngine ServiceDesk Plus
// through its v3 REST API.
package servicedesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chronicle-it/chronicle/internal/application/helpdesk"
	"github.com/chronicle-it/chronicle/internal/shared/biztime"
	"github.com/chronicle-it/chronicle/internal/shared/config"
	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

const (
	requestsPath   = "/api/v3/requests"
	acceptHeader   = "application/vnd.manageengine.sdp.v3+json"
	defaultTimeout = 30 * time.Second
	// Count responses are tiny; anything bigger is not what we asked for.
	maxResponseSize = 256 << 10
)

// DefaultOpenStatuses are the request statuses summed into the open count.
var DefaultOpenStatuses = []string{"Åben", "I bero", "Tildelt", "I gang", "Afventer svar"}

type searchCriterion struct {
	Field     string   `json:"field"`
	Condition string   `json:"condition"`
	Values    []string `json:"values,omitempty"`
	Value     string   `json:"value,omitempty"`
}

type listInfoRequest struct {
	RowCount       int               `json:"row_count"`
	GetTotalCount  bool              `json:"get_total_count"`
	SearchCriteria []searchCriterion `json:"search_criteria"`
}

type inputData struct {
	ListInfo listInfoRequest `json:"list_info"`
}

type responseStatus struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
}

type listResponse struct {
	ResponseStatus json.RawMessage `json:"response_status"`
	ListInfo       *struct {
		TotalCount *int `json:"total_count"`
	} `json:"list_info"`
}

// Client implements helpdesk.TicketSource. It performs one GET per count and
// never retries; retry policy belongs to the caller.
type Client struct {
	baseURL      string
	apiKey       string
	openStatuses []string
	httpClient   *http.Client
	logger       logger.Interface
}

var _ helpdesk.TicketSource = (*Client)(nil)

func NewClient(cfg config.ServiceDeskConfig, logger logger.Interface) *Client {
	timeout := cfg.RequestTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	statuses := cfg.OpenStatuses
	if len(statuses) == 0 {
		statuses = DefaultOpenStatuses
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.URL, "/"),
		apiKey:       cfg.APIKey,
		openStatuses: statuses,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger,
	}
}

// FetchCounts returns new, closed and open counts for the window. Any failed
// query fails the whole fetch so a partial triple is never returned.
func (c *Client) FetchCounts(ctx context.Context, window biztime.WeekWindow) (helpdesk.TicketCounts, error) {
	between := []string{
		strconv.FormatInt(window.StartMillis(), 10),
		strconv.FormatInt(window.EndMillis(), 10),
	}

	created, err := c.count(ctx, searchCriterion{Field: "created_time", Condition: "between", Values: between})
	if err != nil {
		return helpdesk.TicketCounts{}, err
	}

	closed, err := c.count(ctx, searchCriterion{Field: "completed_time", Condition: "between", Values: between})
	if err != nil {
		return helpdesk.TicketCounts{}, err
	}

	open := 0
	for _, status := range c.openStatuses {
		n, err := c.count(ctx, searchCriterion{Field: "status.name", Condition: "is", Value: status})
		if err != nil {
			return helpdesk.TicketCounts{}, err
		}
		open += n
	}

	c.logger.Debugw("fetched servicedesk counts",
		"week", window.String(),
		"new", created,
		"closed", closed,
		"open", open,
	)

	return helpdesk.TicketCounts{New: created, Closed: closed, Open: open}, nil
}

func (c *Client) count(ctx context.Context, criterion searchCriterion) (int, error) {
	payload, err := json.Marshal(inputData{ListInfo: listInfoRequest{
		RowCount:       1,
		GetTotalCount:  true,
		SearchCriteria: []searchCriterion{criterion},
	}})
	if err != nil {
		return 0, helpdesk.NewParseError(fmt.Errorf("failed to encode input_data: %w", err))
	}

	endpoint := c.baseURL + requestsPath + "?input_data=" + url.QueryEscape(string(payload))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, helpdesk.NewNetworkError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("authtoken", c.apiKey)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, helpdesk.NewNetworkError(fmt.Errorf("request for %s failed: %w", criterion.Field, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, helpdesk.NewNetworkError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, helpdesk.NewStatusError(resp.StatusCode, fmt.Errorf("%s query: %s", criterion.Field, snippet(body)))
	}

	return parseTotalCount(body)
}

func parseTotalCount(body []byte) (int, error) {
	var data listResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, helpdesk.NewParseError(fmt.Errorf("failed to decode response: %w", err))
	}

	status, err := decodeStatus(data.ResponseStatus)
	if err != nil {
		return 0, helpdesk.NewParseError(err)
	}
	if !strings.EqualFold(status.Status, "success") {
		return 0, helpdesk.NewParseError(fmt.Errorf("response status %q (code %d)", status.Status, status.StatusCode))
	}

	if data.ListInfo == nil || data.ListInfo.TotalCount == nil {
		return 0, helpdesk.NewParseError(errors.New("response has no list_info.total_count"))
	}
	if *data.ListInfo.TotalCount < 0 {
		return 0, helpdesk.NewParseError(fmt.Errorf("negative total_count %d", *data.ListInfo.TotalCount))
	}
	return *data.ListInfo.TotalCount, nil
}

// decodeStatus accepts response_status both as an object and as a one-element array.
func decodeStatus(raw json.RawMessage) (responseStatus, error) {
	if len(raw) == 0 {
		return responseStatus{}, errors.New("response has no response_status")
	}

	var list []responseStatus
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return responseStatus{}, errors.New("response_status is empty")
		}
		return list[0], nil
	}

	var single responseStatus
	if err := json.Unmarshal(raw, &single); err != nil {
		return responseStatus{}, fmt.Errorf("malformed response_status: %w", err)
	}
	return single, nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
