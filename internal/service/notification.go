package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fleetbook/driverapp/internal/domain"
)

// ReminderWindowDays is how far ahead of a document's expiry reminders start.
// Expired documents are always reminded.
const ReminderWindowDays = 30

// NotificationService merges server notifications with document-expiry
// reminders for the driver's assigned truck.
type NotificationService struct {
	notes   NotificationSource
	session SessionSource
	now     func() time.Time
	log     *slog.Logger
}

// NewNotificationService constructs a NotificationService.
// now defaults to time.Now and log to slog.Default() when nil.
func NewNotificationService(notes NotificationSource, session SessionSource, now func() time.Time, log *slog.Logger) *NotificationService {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &NotificationService{notes: notes, session: session, now: now, log: log}
}

// List returns up to limit server notifications merged with expiry reminders
// for the current user's truck, newest schedule first. Failure to load truck
// documents is logged and yields no reminders; any other failure is returned.
func (s *NotificationService) List(ctx context.Context, limit int) ([]domain.Notification, error) {
	var (
		server []domain.Notification
		user   *domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		server, err = s.notes.ListMine(gctx, limit)
		return err
	})
	g.Go(func() error {
		var err error
		user, err = s.session.CurrentUser(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service.NotificationService.List: %w", err)
	}

	merged := slices.Clone(server)
	if user != nil && user.AssignedTruckID != "" {
		docs, err := s.notes.TruckDocuments(ctx, user.AssignedTruckID)
		if err != nil {
			s.log.WarnContext(ctx, "truck document reminders unavailable",
				"truck_id", user.AssignedTruckID,
				"error", err,
			)
		} else {
			merged = append(merged, DocumentReminders(docs, s.now())...)
		}
	}
	if merged == nil {
		merged = []domain.Notification{}
	}

	SortNotifications(merged)
	return merged, nil
}

// DocumentReminders builds one reminder per document that expires within
// ReminderWindowDays of now or has already expired. Reminders are scheduled
// at now.
func DocumentReminders(docs []domain.TruckDocument, now time.Time) []domain.Notification {
	var out []domain.Notification
	for _, d := range docs {
		if d.ExpiryDate == nil {
			continue
		}
		days := DaysUntil(*d.ExpiryDate, now)
		if days > ReminderWindowDays {
			continue
		}
		at := now
		out = append(out, domain.Notification{
			ID:          "doc-expiry-" + d.ID,
			Title:       "Document expiry",
			Message:     expiryMessage(d.DocType, days),
			Kind:        domain.KindDocumentExpiry,
			ScheduledAt: &at,
		})
	}
	return out
}

// DaysUntil is ceil((t - now) / 24h); negative once t has passed.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

// SortNotifications orders notifications by ScheduledAt, newest first.
// A missing ScheduledAt sorts as the Unix epoch.
func SortNotifications(ns []domain.Notification) {
	slices.SortStableFunc(ns, func(a, b domain.Notification) int {
		return cmp.Compare(scheduledMillis(b), scheduledMillis(a))
	})
}

func scheduledMillis(n domain.Notification) int64 {
	if n.ScheduledAt == nil {
		return 0
	}
	return n.ScheduledAt.UnixMilli()
}

func expiryMessage(docType string, days int) string {
	if docType == "" {
		docType = "Truck document"
	}
	switch {
	case days < 0:
		return fmt.Sprintf("%s expired %s ago", docType, pluralDays(-days))
	case days == 0:
		return docType + " expires today"
	default:
		return fmt.Sprintf("%s expires in %s", docType, pluralDays(days))
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
