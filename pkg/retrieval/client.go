// Package retrieval is the HTTP client for the external documentation-search
// service. The service owns indexing and ranking; this client only consumes
// its search contract and tolerates whatever it returns.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/helmcode/bughunter/pkg/model"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// Search posts the query and decodes the hit list. Errors here are soft:
// the analyzer degrades to "no evidence" rather than failing the entry.
func (c *Client) Search(ctx context.Context, query string) ([]model.EvidenceDoc, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error (status %d)", resp.StatusCode)
	}

	var docs []model.EvidenceDoc
	if err := json.Unmarshal(respBytes, &docs); err != nil {
		// Some deployments wrap the list in {"results": [...]}.
		var wrapped struct {
			Results []model.EvidenceDoc `json:"results"`
		}
		if err2 := json.Unmarshal(respBytes, &wrapped); err2 == nil && wrapped.Results != nil {
			return wrapped.Results, nil
		}
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return docs, nil
}

// Close releases the connection held across a batch. Safe on all exit paths.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}
