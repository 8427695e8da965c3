package ports

import (
	"context"
	"io"

	"github.com/resihub/community-system/internal/core/domain"
)

// UploadedImage is the image store's handle for a stored file.
type UploadedImage struct {
	URL      string
	PublicID string
}

// ImageStore is the external image-hosting collaborator. Upload failures
// on individual complaint images are non-fatal to complaint creation.
type ImageStore interface {
	Upload(ctx context.Context, name string, r io.Reader, folder string) (*UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// EmailSender delivers email. Fire-and-forget: implementations and callers
// log failures, nothing propagates to the primary operation.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSSender delivers text messages with the same contract as EmailSender.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// RealtimePublisher pushes lifecycle events to connected clients. Channels
// are scoped per complaint id, per user id, or per community id.
type RealtimePublisher interface {
	Publish(ctx context.Context, channel string, event domain.LifecycleEvent) error
}

// EventSink receives lifecycle events from the services. The notification
// dispatcher implements it with a non-blocking queue handoff.
type EventSink interface {
	Emit(event domain.LifecycleEvent)
}
