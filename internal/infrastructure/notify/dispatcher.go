// Package notify is the notification fan-out: lifecycle events are handed
// off to a sharded worker pool which delivers realtime, email, and SMS
// notifications. Delivery is best-effort by contract; every failure is
// logged and dropped, nothing ever propagates back to the write that
// produced the event.
package notify

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/api/metrics"
	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
	"github.com/resihub/community-system/internal/infrastructure/db/redis"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes lifecycle events to a fixed set of workers using
// consistent hashing on the complaint id, guaranteeing per-complaint
// delivery ordering.
type Dispatcher struct {
	workers    []chan domain.LifecycleEvent
	users      ports.UserRepository
	email      ports.EmailSender
	sms        ports.SMSSender
	realtime   ports.RealtimePublisher
	adminInbox string
	log        zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. adminInbox receives the
// new-complaint notification emails.
func NewDispatcher(
	numWorkers int,
	users ports.UserRepository,
	email ports.EmailSender,
	sms ports.SMSSender,
	realtime ports.RealtimePublisher,
	adminInbox string,
	log zerolog.Logger,
) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:    make([]chan domain.LifecycleEvent, numWorkers),
		users:      users,
		email:      email,
		sms:        sms,
		realtime:   realtime,
		adminInbox: adminInbox,
		log:        log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LifecycleEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Emit hands an event to the worker responsible for its complaint. The
// handoff never blocks the caller: when the worker's buffer is full the
// event is dropped and logged.
func (d *Dispatcher) Emit(event domain.LifecycleEvent) {
	idx := d.shardIndex(event)
	select {
	case d.workers[idx] <- event:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("event_id", event.ID).Str("kind", string(event.Kind)).Msg("notification queue full, event dropped")
	}
}

// shardIndex maps an event deterministically to a worker index.
func (d *Dispatcher) shardIndex(event domain.LifecycleEvent) int {
	key := event.ComplaintID
	if key == "" {
		key = event.ID
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.LifecycleEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, event)
			metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

// deliver fans one event out to realtime channels and, per kind, to email
// and SMS recipients.
func (d *Dispatcher) deliver(ctx context.Context, event domain.LifecycleEvent) {
	d.publish(ctx, event)

	switch event.Kind {
	case domain.EventComplaintCreated:
		if d.adminInbox != "" {
			d.sendEmail(ctx, event, d.adminInbox,
				"New complaint filed",
				fmt.Sprintf("<p>A new complaint was filed: <b>%s</b></p>", event.Detail))
		}
	case domain.EventComplaintAssigned:
		d.notifyUser(ctx, event,
			"Complaint assigned to you",
			fmt.Sprintf("<p>You have been assigned the complaint <b>%s</b>.</p>", event.Detail),
			fmt.Sprintf("New assignment: %s", event.Detail))
	case domain.EventStatusChanged:
		d.notifyUser(ctx, event,
			"Complaint status updated",
			fmt.Sprintf("<p>Your complaint is now <b>%s</b>.</p>", event.Detail), "")
	}
}

// publish pushes the event on every applicable realtime channel.
func (d *Dispatcher) publish(ctx context.Context, event domain.LifecycleEvent) {
	channels := make([]string, 0, 3)
	if event.ComplaintID != "" {
		channels = append(channels, redis.ComplaintChannel(event.ComplaintID))
	}
	if event.UserID != "" {
		channels = append(channels, redis.UserChannel(event.UserID))
	}
	if event.CommunityID != "" {
		channels = append(channels, redis.CommunityChannel(event.CommunityID))
	}

	for _, ch := range channels {
		if err := d.realtime.Publish(ctx, ch, event); err != nil {
			metrics.NotificationsTotal.WithLabelValues("realtime", "error").Inc()
			d.log.Warn().Err(err).Str("channel", ch).Msg("realtime publish failed")
			continue
		}
		metrics.NotificationsTotal.WithLabelValues("realtime", "ok").Inc()
	}
}

// notifyUser resolves the event's recipient and delivers email plus, when
// a phone number and a body are present, SMS.
func (d *Dispatcher) notifyUser(ctx context.Context, event domain.LifecycleEvent, subject, html, smsBody string) {
	if event.UserID == "" {
		return
	}
	user, err := d.users.FindByID(ctx, event.UserID)
	if err != nil {
		d.log.Warn().Err(err).Str("user_id", event.UserID).Msg("cannot resolve notification recipient")
		return
	}

	d.sendEmail(ctx, event, user.Email, subject, html)
	if smsBody != "" && user.Phone != "" {
		if err := d.sms.Send(ctx, user.Phone, smsBody); err != nil {
			metrics.NotificationsTotal.WithLabelValues("sms", "error").Inc()
			d.log.Warn().Err(err).Str("user_id", user.ID).Msg("sms delivery failed")
		} else {
			metrics.NotificationsTotal.WithLabelValues("sms", "ok").Inc()
		}
	}
}

func (d *Dispatcher) sendEmail(ctx context.Context, event domain.LifecycleEvent, to, subject, html string) {
	err := d.email.Send(ctx, ports.EmailMessage{To: to, Subject: subject, HTML: html})
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("email", "error").Inc()
		d.log.Warn().Err(err).Str("event_id", event.ID).Str("to", to).Msg("email delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("email", "ok").Inc()
}
