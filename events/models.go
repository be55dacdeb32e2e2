package events

import "time"

// EventType names one lifecycle transition announced on the stream.
type EventType string

const (
	PostCreated   EventType = "post.created"
	PostUpdated   EventType = "post.updated"
	PostDeleted   EventType = "post.deleted"
	MediaUploaded EventType = "media.uploaded"
)

// BaseEvent is the envelope shared by every event payload.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// PostEvent announces a post create/update/delete.
type PostEvent struct {
	BaseEvent
	PostID string `json:"post_id"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
	Author string `json:"author,omitempty"`
}

// MediaEvent announces a stored media upload.
type MediaEvent struct {
	BaseEvent
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	Mime     string `json:"mime"`
}
