package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/painel/internal/core/board"
)

// Fetcher reads the raw remote document.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]byte, error)
}

// RemoteCheck fetches the document from the active endpoint and verifies it
// carries the marker polling relies on.
type RemoteCheck struct {
	fetcher  Fetcher
	endpoint string
	timeout  time.Duration
}

// NewRemoteCheck creates a remote check. An empty endpoint means offline.
func NewRemoteCheck(fetcher Fetcher, endpoint string, timeout time.Duration) *RemoteCheck {
	return &RemoteCheck{fetcher: fetcher, endpoint: endpoint, timeout: timeout}
}

func (c *RemoteCheck) Name() string {
	return "Remote"
}

func (c *RemoteCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.endpoint == "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "endpoint",
			Status: StatusWarn,
			Detail: "offline mode, edits stay local",
		})
		return result
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	body, err := c.fetcher.Fetch(ctx, c.endpoint)
	if err != nil {
		result.Items = append(result.Items, CheckItem{Label: "reachable", Status: StatusFail, Detail: err.Error()})
		return result
	}
	result.Items = append(result.Items, CheckItem{
		Label:  "reachable",
		Status: StatusPass,
		Detail: fmt.Sprintf("%s in %s", c.endpoint, time.Since(start).Round(time.Millisecond)),
	})

	raw, err := board.DecodeRaw(body)
	if err != nil {
		result.Items = append(result.Items, CheckItem{Label: "document", Status: StatusFail, Detail: "response is not JSON"})
		return result
	}

	if !board.HasUpdateMarker(raw) {
		result.Items = append(result.Items, CheckItem{
			Label:  "document",
			Status: StatusWarn,
			Detail: "no lastUpdated marker, remote changes will not be picked up",
		})
		return result
	}

	doc := board.Normalize(raw)
	result.Items = append(result.Items, CheckItem{
		Label:  "document",
		Status: StatusPass,
		Detail: "last updated " + doc.LastUpdated,
	})
	return result
}
