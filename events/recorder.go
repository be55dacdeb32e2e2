package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"typograph/eventbus"
	"typograph/logger"
)

const (
	source  = "typograph"
	version = "1"
)

// Recorder publishes lifecycle events to the bus. All publishing is
// best-effort: failures are logged and never surfaced to the mutation that
// triggered them.
type Recorder struct {
	bus   eventbus.EventBus
	topic string
}

func NewRecorder(bus eventbus.EventBus, topic string) *Recorder {
	return &Recorder{bus: bus, topic: topic}
}

func newBase(typ EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		Timestamp: time.Now(),
		Source:    source,
		Version:   version,
	}
}

func (r *Recorder) PostCreated(ctx context.Context, postID, title, url, author string) {
	r.publish(ctx, PostEvent{BaseEvent: newBase(PostCreated), PostID: postID, Title: title, URL: url, Author: author})
}

func (r *Recorder) PostUpdated(ctx context.Context, postID, title, url, author string) {
	r.publish(ctx, PostEvent{BaseEvent: newBase(PostUpdated), PostID: postID, Title: title, URL: url, Author: author})
}

func (r *Recorder) PostDeleted(ctx context.Context, postID string) {
	r.publish(ctx, PostEvent{BaseEvent: newBase(PostDeleted), PostID: postID})
}

func (r *Recorder) MediaUploaded(ctx context.Context, filename, url string, size int64, mime string) {
	r.publish(ctx, MediaEvent{BaseEvent: newBase(MediaUploaded), Filename: filename, URL: url, Size: size, Mime: mime})
}

type carrier interface {
	base() BaseEvent
}

func (e PostEvent) base() BaseEvent  { return e.BaseEvent }
func (e MediaEvent) base() BaseEvent { return e.BaseEvent }

func (r *Recorder) publish(ctx context.Context, ev carrier) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Errorf("event marshal failed type=%s err=%v", ev.base().Type, err)
		return
	}
	e := eventbus.Event{ID: ev.base().ID, Payload: payload}
	if err := r.bus.Publish(ctx, r.topic, e); err != nil {
		logger.Log.Warnf("event publish failed type=%s err=%v", ev.base().Type, err)
	}
}
