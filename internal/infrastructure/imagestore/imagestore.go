// Package imagestore is the client for the external image-hosting service.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/ports"
)

// Client uploads and deletes files against the image host's HTTP API.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// New builds a Client for the image host at baseURL.
func New(baseURL, apiKey string, log zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetAuthToken(apiKey)

	return &Client{http: client, log: log}
}

type uploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Upload streams one file into the given folder and returns its handle.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader, folder string) (*ports.UploadedImage, error) {
	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("file", name, r).
		SetFormData(map[string]string{"folder": folder}).
		SetResult(&out).
		Post("/upload")
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("upload image: host returned %s", resp.Status())
	}

	c.log.Debug().Str("name", name).Str("url", out.URL).Msg("image uploaded")
	return &ports.UploadedImage{URL: out.URL, PublicID: out.PublicID}, nil
}

// Delete removes a previously uploaded file by its public id.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/images/" + publicID)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("delete image: host returned %s", resp.Status())
	}
	return nil
}
