package ipfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samirrijal/geostory/internal/pkg/config"
)

// maxDocumentBytes caps a single document body. Pinned media can be large;
// anything bigger than this is not worth feeding to the backend anyway.
const maxDocumentBytes = 32 << 20 // 32 MiB

// Gateway implements ports.ContentGateway over an IPFS HTTP gateway.
// Content addressing means a CID always resolves to the same bytes, so no
// validation of the payload is done here.
type Gateway struct {
	baseURL string
	http    *http.Client
}

// New builds a gateway client from configuration.
func New(cfg config.GatewayConfig) *Gateway {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the raw bytes for a content identifier.
func (g *Gateway) Fetch(ctx context.Context, cid string) ([]byte, error) {
	if cid == "" {
		return nil, fmt.Errorf("empty cid")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/ipfs/"+cid, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway fetch %s: %w", cid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway fetch %s: %s", cid, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", cid, err)
	}
	return body, nil
}
