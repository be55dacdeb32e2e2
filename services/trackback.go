package services

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"typograph/logger"
)

// Notifier dispatches trackback pings for a freshly saved post.
type Notifier interface {
	// Notify pings every target in pingURLs with the post's canonical URL.
	// It never reports failure: pings are best-effort and must not affect
	// the outcome of the surrounding create/edit call.
	Notify(postURL, pingURLs string)
}

// TrackbackNotifier sends standard trackback pings over HTTP. Targets are
// pinged from a detached goroutine with a bounded per-request timeout, so
// slow trackback endpoints cannot stall the calling RPC.
type TrackbackNotifier struct {
	client *http.Client
}

func NewTrackbackNotifier(timeout time.Duration) *TrackbackNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TrackbackNotifier{
		client: &http.Client{Timeout: timeout},
	}
}

func (n *TrackbackNotifier) Notify(postURL, pingURLs string) {
	targets := SplitPingURLs(pingURLs)
	if len(targets) == 0 {
		return
	}

	go func() {
		for _, target := range targets {
			if err := n.Ping(target, postURL); err != nil {
				logger.Log.Warnf("trackback ping failed target=%s post=%s err=%v", target, postURL, err)
			}
		}
	}()
}

// Ping sends one trackback ping synchronously. Split out of Notify so the
// wire behavior stays testable without goroutine scheduling.
func (n *TrackbackNotifier) Ping(target, postURL string) error {
	form := url.Values{}
	form.Set("url", postURL)

	resp, err := n.client.PostForm(target, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &pingError{target: target, status: resp.Status}
	}
	return nil
}

type pingError struct {
	target string
	status string
}

func (e *pingError) Error() string {
	return "trackback target " + e.target + " answered " + e.status
}

// SplitPingURLs breaks the opaque ping-target list a client supplied into
// individual URLs. Clients delimit with whitespace or commas.
func SplitPingURLs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ','
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
