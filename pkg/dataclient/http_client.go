package dataclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	dashboard "github.com/goliatone/go-dashboard-item/components/dashboard"
)

// HTTPConfig configures the HTTP chart-data client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient queries a remote chart-data API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for a live chart-data API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("dataclient: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

type dataRequest struct {
	RenderType  dashboard.RenderType       `json:"renderType"`
	ItemID      int                        `json:"itemId"`
	Pagination  *dashboard.Pagination      `json:"pagination,omitempty"`
	NativeQuery bool                       `json:"nativeQuery"`
	Conditions  *dashboard.QueryConditions `json:"conditions,omitempty"`
	DrillStatus *dashboard.DrillStatus     `json:"drillStatus,omitempty"`
}

// Query implements Querier by posting the request to /widgets/{id}/data. The
// datasource may be returned bare or wrapped in a "payload" envelope.
func (c *HTTPClient) Query(ctx context.Context, req dashboard.FetchRequest) (dashboard.Datasource, error) {
	payload := dataRequest{RenderType: req.RenderType, ItemID: req.ItemID}
	if req.Options != nil {
		payload.Pagination = req.Options.Pagination
		payload.NativeQuery = req.Options.NativeQuery
		payload.Conditions = req.Options.Conditions
		payload.DrillStatus = req.Options.DrillStatus
	}
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/widgets/%d/data", req.WidgetID), req.ID, payload)
	if err != nil {
		return dashboard.Datasource{}, err
	}
	return decodeDatasource(body)
}

func decodeDatasource(body []byte) (dashboard.Datasource, error) {
	if !gjson.ValidBytes(body) {
		return dashboard.Datasource{}, fmt.Errorf("dataclient: response is not valid JSON")
	}
	raw := body
	if envelope := gjson.GetBytes(body, "payload"); envelope.IsObject() {
		raw = []byte(envelope.Raw)
	}
	var ds dashboard.Datasource
	if err := json.Unmarshal(raw, &ds); err != nil {
		return dashboard.Datasource{}, fmt.Errorf("dataclient: decode datasource: %w", err)
	}
	if ds.ResultList == nil {
		ds.ResultList = []map[string]any{}
	}
	return ds, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, requestID string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dataclient: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dataclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataclient: http request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dataclient: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dataclient: remote error %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
