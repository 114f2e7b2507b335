package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"MetalBoard/internal/model"
)

// HTTPLoader fetches <BaseURL>/<commodity>.json, e.g. from the published site.
type HTTPLoader struct {
	BaseURL string
	client  *resty.Client
}

// NewHTTPLoader creates a loader with optional proxy support.
func NewHTTPLoader(baseURL, proxyURL string) *HTTPLoader {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &HTTPLoader{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (h *HTTPLoader) Name() string { return "http" }

func (h *HTTPLoader) Load(ctx context.Context, commodity model.Commodity) ([]model.RawRecord, error) {
	endpoint := h.BaseURL + "/" + DatasetFile(commodity)
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode())
	}
	var records []model.RawRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return records, nil
}
