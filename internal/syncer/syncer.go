// Package syncer mirrors the document to the remote store with a
// cache-first, debounced dual-write strategy.
//
// Every save writes the local cache synchronously before anything touches
// the network, so a remote failure can never leave local state stale.
// Rapid edits coalesce: one pending timer exists at a time, and each new
// debounced save cancels and restarts it. The full document is written each
// time, so last-writer-wins at the remote is intentional.
package syncer

import (
	"encoding/json"
	"sync"
	"time"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
	"spendbook/internal/models"
	"spendbook/internal/normalize"
	"spendbook/internal/notify"
	"spendbook/internal/store"
)

// DefaultDebounce is the quiet window used when no other is configured.
const DefaultDebounce = 400 * time.Millisecond

// Client is the remote sync client.
type Client struct {
	cache  *store.Cache
	remote store.Remote
	feed   *notify.Feed
	window time.Duration

	mu             sync.Mutex
	pendingTimer   *time.Timer
	pendingUserID  string
	pendingPayload string
}

// New creates a sync client. A non-positive window falls back to
// DefaultDebounce.
func New(cache *store.Cache, remote store.Remote, feed *notify.Feed, window time.Duration) *Client {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Client{cache: cache, remote: remote, feed: feed, window: window}
}

// Fetch reads the one remote record for userID. A missing record means
// first login: a defaults document is built and immediately persisted so the
// remote row exists from then on. Found payloads pass through the
// normalizer before use.
func (c *Client) Fetch(userID string) (*models.Document, error) {
	rec, err := c.remote.Select(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteRead, err)
	}
	if rec == nil {
		doc := models.DefaultDocument()
		payload, merr := json.Marshal(doc)
		if merr != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, merr)
		}
		c.writeRemote(userID, string(payload))
		return doc, nil
	}
	return normalize.Parse([]byte(rec.Payload)), nil
}

// Save persists the document: local cache synchronously first, then the
// remote write, immediate or debounced. Storage failures are downgraded to
// warnings; the in-memory document stays authoritative and Save never
// reports them as fatal.
func (c *Client) Save(userID string, doc *models.Document, immediate bool) {
	if err := c.cache.Save(doc); err != nil {
		logger.Get().Warnw("local cache write failed", "error", err)
		c.feed.Warn(apperrors.ErrCacheWrite.Message)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		logger.Get().Errorw("document marshal failed", "error", err)
		return
	}

	if immediate {
		c.cancelPending()
		c.writeRemote(userID, string(payload))
		return
	}
	c.schedule(userID, string(payload))
}

// schedule arms the single-slot debounce timer, replacing any pending write.
func (c *Client) schedule(userID, payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
	}
	c.pendingUserID = userID
	c.pendingPayload = payload
	c.pendingTimer = time.AfterFunc(c.window, c.firePending)
}

// Flush forces any pending debounced write to run now. Used on shutdown.
func (c *Client) Flush() {
	c.firePending()
}

// firePending takes the pending write, if any, and performs it.
func (c *Client) firePending() {
	c.mu.Lock()
	if c.pendingTimer == nil {
		c.mu.Unlock()
		return
	}
	c.pendingTimer.Stop()
	c.pendingTimer = nil
	userID, payload := c.pendingUserID, c.pendingPayload
	c.pendingUserID, c.pendingPayload = "", ""
	c.mu.Unlock()

	c.writeRemote(userID, payload)
}

// cancelPending drops a pending debounced write without running it. An
// immediate save that follows supersedes whatever was queued.
func (c *Client) cancelPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
		c.pendingUserID, c.pendingPayload = "", ""
	}
}

// writeRemote performs the upsert. Failures are non-fatal: logged and
// surfaced on the notice feed; the next natural save retries implicitly.
func (c *Client) writeRemote(userID, payload string) {
	rec := store.Record{UserID: userID, Payload: payload, UpdatedAt: time.Now().UTC()}
	if err := c.remote.Upsert(rec); err != nil {
		logger.Get().Warnw("remote upsert failed", "user_id", userID, "error", err)
		c.feed.Warn(apperrors.ErrRemoteWrite.Message)
	}
}
