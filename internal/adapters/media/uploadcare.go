package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"riconnect/internal/domain"
)

// DefaultCDNURL is where Uploadcare serves stored files.
const DefaultCDNURL = "https://ucarecdn.com"

type uploadcare struct {
	client    *http.Client
	uploadURL string
	cdnURL    string
	publicKey string
}

// NewUploadcare returns an ImageUploader using Uploadcare's direct upload API.
func NewUploadcare(client *http.Client, uploadURL, cdnURL, publicKey string) domain.ImageUploader {
	if client == nil {
		client = http.DefaultClient
	}
	if cdnURL == "" {
		cdnURL = DefaultCDNURL
	}
	return &uploadcare{
		client:    client,
		uploadURL: strings.TrimSuffix(uploadURL, "/"),
		cdnURL:    strings.TrimSuffix(cdnURL, "/"),
		publicKey: publicKey,
	}
}

func (u *uploadcare) Upload(ctx context.Context, name string, data []byte) (domain.UploadedImage, error) {
	if u.publicKey == "" {
		return domain.UploadedImage{}, fmt.Errorf("upload: no public key configured: %w", domain.ErrInvalidInput)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("UPLOADCARE_PUB_KEY", u.publicKey)
	_ = mw.WriteField("UPLOADCARE_STORE", "auto")
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("upload: create form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return domain.UploadedImage{}, fmt.Errorf("upload: write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.UploadedImage{}, fmt.Errorf("upload: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL+"/base/", &body)
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return domain.UploadedImage{}, fmt.Errorf("upload: %w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.UploadedImage{}, &domain.StatusError{Op: "upload", StatusCode: resp.StatusCode}
	}

	var out struct {
		File string `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.File == "" {
		return domain.UploadedImage{}, fmt.Errorf("upload: response has no file id: %w", domain.ErrInvalidResponse)
	}
	return domain.UploadedImage{
		UUID:   out.File,
		CDNURL: fmt.Sprintf("%s/%s/", u.cdnURL, out.File),
	}, nil
}
