package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

const defaultResourceType = "raw"

// Config contains credentials and placement for dataset uploads.
type Config struct {
	CloudName    string
	APIKey       string
	APISecret    string
	Folder       string
	ResourceType string
}

// Service stores dataset files in Cloudinary.
type Service struct {
	client       *cloudinary.Cloudinary
	folder       string
	resourceType string
	logger       zerolog.Logger
	now          func() time.Time
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	resourceType := strings.TrimSpace(cfg.ResourceType)
	if resourceType == "" {
		resourceType = defaultResourceType
	}

	return &Service{
		client:       cld,
		folder:       strings.Trim(cfg.Folder, "/"),
		resourceType: resourceType,
		logger:       logger.With().Str("component", "cloudinary").Logger(),
		now:          time.Now,
	}, nil
}

// Upload sends the file to Cloudinary and returns a secure URL.
func (s *Service) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	publicID := s.publicID(name)

	overwrite := false
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: s.resourceType,
		Overwrite:    &overwrite,
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	s.logger.Info().Str("public_id", result.PublicID).Str("resource_type", s.resourceType).Msg("file uploaded to cloudinary")

	return result.SecureURL, nil
}

// publicID sanitises name. Raw resources keep their extension because Cloudinary
// serves them under the full public id.
func (s *Service) publicID(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("upload-%d", s.now().Unix())
	}

	if s.resourceType == defaultResourceType {
		return base + ext
	}
	return base
}
