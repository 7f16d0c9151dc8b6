package clients

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CloudinaryClient uploads images to the Cloudinary REST API using signed
// multipart requests. Calls honor the caller's context, so a scheduler
// timeout cancels the underlying HTTP request instead of leaking it.
type CloudinaryClient struct {
	client    *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
}

// UploadOptions configures a single image upload.
type UploadOptions struct {
	Folder         string
	PublicID       string
	Quality        string // e.g. "auto"
	Transformation string // e.g. "c_limit,w_1000"
}

// UploadResult is the subset of the Cloudinary response the pipeline uses.
type UploadResult struct {
	URL    string `json:"url"`
	Secure string `json:"secure_url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// NewCloudinaryClient builds a client from CLOUDINARY_* environment
// variables. Uploads fail at call time when the configuration is missing.
func NewCloudinaryClient() *CloudinaryClient {
	client := resty.New()
	client.SetTimeout(60 * time.Second)

	return &CloudinaryClient{
		client:    client,
		cloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		apiKey:    os.Getenv("CLOUDINARY_API_KEY"),
		apiSecret: os.Getenv("CLOUDINARY_API_SECRET"),
	}
}

// Configured reports whether all credentials are present.
func (c *CloudinaryClient) Configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

// Upload sends a data-URI payload to Cloudinary and returns the hosted URL.
func (c *CloudinaryClient) Upload(ctx context.Context, dataURI string, opts UploadOptions) (*UploadResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("cloudinary is not configured (CLOUDINARY_CLOUD_NAME/API_KEY/API_SECRET)")
	}

	timestamp := time.Now().Unix()

	params := map[string]string{
		"timestamp": fmt.Sprintf("%d", timestamp),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	if opts.PublicID != "" {
		params["public_id"] = opts.PublicID
	}
	if opts.Quality != "" {
		params["quality"] = opts.Quality
	}
	if opts.Transformation != "" {
		params["transformation"] = opts.Transformation
	}

	fields := make(map[string]string, len(params)+3)
	for k, v := range params {
		fields[k] = v
	}
	fields["api_key"] = c.apiKey
	fields["signature"] = c.sign(params)
	fields["file"] = dataURI

	var result UploadResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(fields).
		SetResult(&result).
		Post(fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.cloudName))
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cloudinary upload failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	if result.URL == "" && result.Secure == "" {
		return nil, fmt.Errorf("cloudinary returned an empty URL")
	}
	if result.URL == "" {
		result.URL = result.Secure
	}

	return &result, nil
}

// sign builds the SHA1 request signature over the alphabetically sorted
// API parameters, as required by the Cloudinary upload API.
func (c *CloudinaryClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
