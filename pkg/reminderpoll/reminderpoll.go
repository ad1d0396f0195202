// Package reminderpoll drives the client side of the reminder loop: it polls
// the due-reminders endpoint on a fixed interval and keeps announcing the
// active reminder until it is acknowledged.
package reminderpoll

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/meditrack/server/pkg/clock"
)

type Reminder struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Dosage         string `json:"dosage"`
	Time           string `json:"time"`
	VoiceAlertType string `json:"voice_alert_type"`
}

// Announcer plays whatever the platform uses for a voice alert. The poller
// only decides when to announce.
type Announcer interface {
	Announce(rem Reminder)
}

type AnnouncerFunc func(rem Reminder)

func (f AnnouncerFunc) Announce(rem Reminder) {
	f(rem)
}

type Options struct {
	BaseURL string
	UserID  uuid.UUID
	// PollEvery defaults to 5s, RepeatEvery to 30s
	PollEvery   time.Duration
	RepeatEvery time.Duration
	HTTPClient  *http.Client
	// Clock defaults to the wall clock
	Clock clock.Clock
}

// Poller surfaces a single reminder at a time: when several are due it takes
// the first of the server's list, matching the one-modal-at-a-time UX.
// Polls run back-to-back on one goroutine, so a slow request skips ticks
// instead of stacking in-flight calls.
type Poller struct {
	opts      Options
	announcer Announcer

	mu         sync.Mutex
	active     *Reminder
	stopRepeat chan struct{}
	ackID      int64
	ackUntil   time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(opts Options, announcer Announcer) (*Poller, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	if opts.UserID == uuid.Nil {
		return nil, errors.New("user id is required")
	}
	if announcer == nil {
		return nil, errors.New("announcer is required")
	}
	if opts.PollEvery <= 0 {
		opts.PollEvery = 5 * time.Second
	}
	if opts.RepeatEvery <= 0 {
		opts.RepeatEvery = 30 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	return &Poller{
		opts:      opts,
		announcer: announcer,
	}, nil
}

func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return errors.New("poller already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.opts.PollEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
	return nil
}

// Stop kills the poll loop and any announcement loop. Safe to call more
// than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.silenceLocked()
	p.mu.Unlock()
	p.wg.Wait()
}

// Active reports the reminder currently being announced, if any.
func (p *Poller) Active() (Reminder, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return Reminder{}, false
	}
	return *p.active, true
}

// Acknowledge stops the announcement loop and clears the reminder
// server-side, so it stays quiet for the rest of the day. The server call is
// best-effort: the local loop stops regardless.
func (p *Poller) Acknowledge(ctx context.Context) error {
	p.mu.Lock()
	if p.active == nil {
		p.mu.Unlock()
		return nil
	}
	id := p.active.ID
	p.silenceLocked()
	// A poll already in flight can still carry this reminder; ignore it until
	// the server-side clear has certainly been observed.
	p.ackID = id
	p.ackUntil = p.opts.Clock.Now().Add(2 * p.opts.PollEvery)
	p.mu.Unlock()

	url := fmt.Sprintf("%s/api/reminders/%d", p.opts.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return errors.New("building clear-reminder request error: " + err.Error())
	}
	req.Header.Set("user-id", p.opts.UserID.String())
	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return errors.New("clearing reminder error: " + err.Error())
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clearing reminder failed with status %d", resp.StatusCode)
	}
	return nil
}

type remindersResponse struct {
	Success   bool       `json:"success"`
	Reminders []Reminder `json:"reminders"`
}

func (p *Poller) poll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.PollEvery)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.opts.BaseURL+"/api/reminders", nil)
	if err != nil {
		return
	}
	req.Header.Set("user-id", p.opts.UserID.String())
	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}
	var body remindersResponse
	if err = sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&body); err != nil {
		return
	}
	if !body.Success || len(body.Reminders) == 0 {
		return
	}
	p.activate(body.Reminders[0])
}

// activate starts announcing rem unless it is already the active reminder.
// A different due reminder replaces the running announcement loop.
func (p *Poller) activate(rem Reminder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil && p.active.ID == rem.ID {
		return
	}
	if rem.ID == p.ackID && p.opts.Clock.Now().Before(p.ackUntil) {
		return
	}
	p.silenceLocked()
	p.active = &rem
	stop := make(chan struct{})
	p.stopRepeat = stop

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.announcer.Announce(rem)
		ticker := time.NewTicker(p.opts.RepeatEvery)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				p.announcer.Announce(rem)
			}
		}
	}()
}

func (p *Poller) silenceLocked() {
	if p.stopRepeat != nil {
		close(p.stopRepeat)
		p.stopRepeat = nil
	}
	p.active = nil
}
