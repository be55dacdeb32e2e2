package services

import "context"

// Publisher receives lifecycle notifications after successful mutations.
// Implementations must be best-effort; the service never checks for errors.
type Publisher interface {
	PostCreated(ctx context.Context, postID, title, url, author string)
	PostUpdated(ctx context.Context, postID, title, url, author string)
	PostDeleted(ctx context.Context, postID string)
	MediaUploaded(ctx context.Context, filename, url string, size int64, mime string)
}

// NoopPublisher drops every notification.
type NoopPublisher struct{}

func (NoopPublisher) PostCreated(ctx context.Context, postID, title, url, author string) {}
func (NoopPublisher) PostUpdated(ctx context.Context, postID, title, url, author string) {}
func (NoopPublisher) PostDeleted(ctx context.Context, postID string)                     {}
func (NoopPublisher) MediaUploaded(ctx context.Context, filename, url string, size int64, mime string) {
}
