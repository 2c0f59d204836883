package orchestrators

import (
	"context"
	"log/slog"

	appdownloadDomain "tigeriron/internal/domain/appdownload"
)

// EventStoreForDownload defines the store interface needed by RecordDownload.
type EventStoreForDownload interface {
	Insert(ctx context.Context, value appdownloadDomain.Event) error
}

// RecordDownloadInput carries the download-click attributes.
type RecordDownloadInput struct {
	Platform  string
	UserAgent string
	Referrer  string
}

// RecordDownloadDeps holds dependencies for RecordDownload.
type RecordDownloadDeps struct {
	EventStore EventStoreForDownload
}

// ExecuteRecordDownload stores a best-effort analytics event for a
// download-link click. Failures are logged only; callers never surface them.
// PRE: platform comes from the click handler
// POST: Event row exists on success; a validation or insert error is
// returned for the caller to swallow
func ExecuteRecordDownload(ctx context.Context, input RecordDownloadInput, deps RecordDownloadDeps) error {
	referrer := input.Referrer
	if referrer == "" {
		referrer = "direct"
	}
	ev := appdownloadDomain.Event{
		Platform:  input.Platform,
		UserAgent: input.UserAgent,
		Referrer:  referrer,
	}
	if err := ev.Validate(); err != nil {
		slog.Warn("download_event", "event", "invalid_platform", "platform", input.Platform)
		return err
	}
	if err := deps.EventStore.Insert(ctx, ev); err != nil {
		slog.Warn("download_event", "event", "insert_failed", "error", err)
		return err
	}
	slog.Info("download_event", "event", "download_recorded", "platform", ev.Platform)
	return nil
}
