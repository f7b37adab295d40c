package pinata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/pkg/config"
)

// Client implements ports.CatalogProvider against the Pinata pin list API.
type Client struct {
	baseURL   string
	apiKey    string
	secretKey string
	http      *http.Client
}

// New builds a catalog client from configuration.
func New(cfg config.CatalogConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		secretKey: cfg.SecretKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// pinRow mirrors one row of Pinata's /data/pinList response.
type pinRow struct {
	IPFSPinHash string `json:"ipfs_pin_hash"`
	Size        int64  `json:"size"`
	DatePinned  string `json:"date_pinned"`
	MimeType    string `json:"mime_type"`
	Metadata    struct {
		Name      string         `json:"name"`
		Keyvalues map[string]any `json:"keyvalues"`
	} `json:"metadata"`
}

type pinListResponse struct {
	Count int      `json:"count"`
	Rows  []pinRow `json:"rows"`
}

// ListPinned returns every pinned object with its key-value metadata.
func (c *Client) ListPinned(ctx context.Context) ([]domain.CatalogEntry, error) {
	url := c.baseURL + "/data/pinList?status=pinned"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pin list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("pinata %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var list pinListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode pin list: %w", err)
	}

	entries := make([]domain.CatalogEntry, 0, len(list.Rows))
	for _, row := range list.Rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries, nil
}

// rowToEntry flattens a Pinata row into a CatalogEntry. Keyvalues arrive as
// arbitrary JSON scalars; they are stringified so downstream code sees one
// shape. The MIME type may live on the row or in the keyvalues, depending on
// how the object was pinned.
func rowToEntry(row pinRow) domain.CatalogEntry {
	md := make(map[string]string, len(row.Metadata.Keyvalues))
	for k, v := range row.Metadata.Keyvalues {
		switch val := v.(type) {
		case string:
			md[k] = val
		case float64:
			md[k] = trimFloat(val)
		case bool:
			md[k] = fmt.Sprintf("%t", val)
		}
	}

	mime := row.MimeType
	if mime == "" {
		mime = md["mime_type"]
	}

	entry := domain.CatalogEntry{
		CID:       row.IPFSPinHash,
		Name:      row.Metadata.Name,
		MimeType:  mime,
		SizeBytes: row.Size,
		Metadata:  md,
	}
	if t, err := time.Parse(time.RFC3339, row.DatePinned); err == nil {
		entry.PinnedAt = t
	}
	return entry
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
