package image

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmorgan81/kittenbass/internal/log"
)

// Chain tries each backend in order, once, and returns the first bytes produced.
// There is no retry and no backoff; a failing backend just hands over to the next.
type Chain struct {
	Backends []Backend
	Client   *http.Client
	FetchURL bool
}

func (c *Chain) Generate(ctx context.Context, prompt string) ([]byte, string, error) {
	logger := log.FromContextOrDiscard(ctx).WithGroup("chain")

	for _, b := range c.Backends {
		logger := logger.With("backend", b.Name())

		payload, err := b.Generate(ctx, prompt)
		if err != nil {
			logger.Error("image generation failed", log.Err(err))
			continue
		}

		data := payload.Data
		if len(data) == 0 && payload.URL != "" && c.FetchURL {
			if data, err = c.fetch(ctx, payload.URL); err != nil {
				logger.Error("fetching image url failed", log.Err(err))
				continue
			}
		}
		if len(data) == 0 {
			logger.Warn("no image payload")
			continue
		}

		logger.Info("image generated", "bytes", len(data))
		return data, b.Name(), nil
	}
	return nil, "", ErrNoImage
}

func (c *Chain) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
