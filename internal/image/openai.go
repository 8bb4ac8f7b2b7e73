package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmorgan81/kittenbass/internal/log"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type Params struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type openAIResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// OpenAIBackend calls the images/generations endpoint for a single model.
type OpenAIBackend struct {
	Client    *http.Client
	BaseURL   string
	Key       string
	Model     string
	Size      string
	UserAgent string
}

func (b *OpenAIBackend) Name() string {
	return b.Model
}

func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (Payload, error) {
	logger := log.FromContextOrDiscard(ctx).WithGroup("openai").With("model", b.Model, "size", b.Size)
	logger.Info("generating image")

	body, err := json.Marshal(Params{
		Model:          b.Model,
		Prompt:         prompt,
		N:              1,
		Size:           b.Size,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return Payload{}, err
	}

	url := strings.TrimSuffix(b.BaseURL, "/") + "/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Payload{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.Key)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return Payload{}, err
	}
	defer resp.Body.Close()

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Payload{}, fmt.Errorf("decoding response (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if out.Error != nil {
			return Payload{}, fmt.Errorf("provider error (%d): %s", resp.StatusCode, out.Error.Message)
		}
		return Payload{}, fmt.Errorf("provider error (%d)", resp.StatusCode)
	}
	if len(out.Data) == 0 {
		return Payload{}, nil
	}

	first := out.Data[0]
	payload := Payload{URL: first.URL}
	if first.B64JSON != "" {
		if payload.Data, err = base64.StdEncoding.DecodeString(first.B64JSON); err != nil {
			return Payload{}, fmt.Errorf("decoding b64_json: %w", err)
		}
	}
	logger.Info("received image", "bytes", len(payload.Data), "url", payload.URL != "")
	return payload, nil
}
