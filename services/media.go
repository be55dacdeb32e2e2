package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"typograph/dto"
	"typograph/logger"
	"typograph/models"
)

// ResourceStore is the slice of the content store recording uploads.
type ResourceStore interface {
	Insert(ctx context.Context, res *models.Resource) error
}

// MediaService stores uploaded media objects below a local storage root
// and records a Resource document per upload.
type MediaService struct {
	resources ResourceStore
	root      string
	urls      URLBuilder
	events    Publisher
}

func NewMediaService(resources ResourceStore, root string, urls URLBuilder, events Publisher) *MediaService {
	return &MediaService{resources: resources, root: root, urls: urls, events: events}
}

// Store writes bits verbatim to the relative path name (creating
// intermediate directories), records the resource metadata and returns the
// file's public URL.
//
// The recorded size is measured from the written file rather than taken
// from the input, so the metadata always reflects on-disk truth.
func (s *MediaService) Store(ctx context.Context, name string, bits []byte, mime string) (dto.URLDTO, error) {
	clean, err := sanitizeMediaPath(name)
	if err != nil {
		return dto.URLDTO{}, err
	}

	full := filepath.Join(s.root, filepath.FromSlash(clean))
	if dir := filepath.Dir(full); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dto.URLDTO{}, fmt.Errorf("%w: creating media directory: %v", ErrStorage, err)
		}
	}
	if err := os.WriteFile(full, bits, 0o644); err != nil {
		return dto.URLDTO{}, fmt.Errorf("%w: writing media file: %v", ErrStorage, err)
	}

	st, err := os.Stat(full)
	if err != nil {
		return dto.URLDTO{}, fmt.Errorf("%w: stat media file: %v", ErrStorage, err)
	}

	res := &models.Resource{
		Filename: clean,
		Size:     st.Size(),
		Mime:     mime,
	}
	if err := s.resources.Insert(ctx, res); err != nil {
		return dto.URLDTO{}, fmt.Errorf("%w: recording resource: %v", ErrStorage, err)
	}

	url := s.urls.FileURL(clean)
	logger.Log.Infof("media stored filename=%s size=%d mime=%s", clean, st.Size(), mime)
	s.events.MediaUploaded(ctx, clean, url, st.Size(), mime)

	return dto.URLDTO{URL: url}, nil
}

// sanitizeMediaPath validates the client-supplied upload path. Uploads are
// confined to the storage root: absolute paths, parent traversal and
// backslash separators are rejected.
func sanitizeMediaPath(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty media name", ErrValidation)
	}
	if strings.Contains(name, "\\") {
		return "", fmt.Errorf("%w: unsupported path separator in %q", ErrValidation, name)
	}
	if path.IsAbs(name) {
		return "", fmt.Errorf("%w: absolute media path %q", ErrValidation, name)
	}

	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: media path %q escapes storage root", ErrValidation, name)
	}
	return clean, nil
}
