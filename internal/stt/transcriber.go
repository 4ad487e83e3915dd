// Package stt turns call audio into transcripts via an external
// speech-to-text service.
package stt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Transcriber converts WAV audio into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Options configures the HTTP transcriber.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls a speech-to-text HTTP service that accepts WAV bodies on
// POST /transcribe and answers {"transcript": "..."}.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds an HTTP transcriber.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

type transcribeResponse struct {
	Transcript string `json:"transcript"`
}

// Transcribe sends the audio and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", audio)
	if err != nil {
		return "", eris.Wrap(err, "stt: create request")
	}
	req.Header.Set("Content-Type", "audio/wav")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "stt: transcribe request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", eris.Errorf("stt: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", eris.Wrap(err, "stt: decode response")
	}
	return strings.TrimSpace(out.Transcript), nil
}
