package projections

import (
	"context"
	"log/slog"
	"sync"

	"tigeriron/internal/domain/inquiry"
	"tigeriron/internal/domain/membership"
	"tigeriron/internal/domain/profile"
)

// AdminProfileStore defines the profile store interface needed by the admin dashboard projection.
type AdminProfileStore interface {
	CountMembers(ctx context.Context) (int, error)
	ListRecentMembers(ctx context.Context, limit int) ([]profile.Profile, error)
}

// AdminMembershipStore defines the membership store interface needed by the admin dashboard projection.
type AdminMembershipStore interface {
	CountByStatus(ctx context.Context, status string) (int, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]membership.Membership, error)
}

// AdminInquiryStore defines the inquiry store interface needed by the admin dashboard projection.
type AdminInquiryStore interface {
	Count(ctx context.Context) (int, error)
	ListRecent(ctx context.Context, limit int) ([]inquiry.Inquiry, error)
}

// AdminDownloadStore defines the download store interface needed by the admin dashboard projection.
type AdminDownloadStore interface {
	Count(ctx context.Context) (int, error)
}

// GetAdminDashboardDeps holds dependencies for the admin dashboard projection.
type GetAdminDashboardDeps struct {
	ProfileStore    AdminProfileStore
	MembershipStore AdminMembershipStore
	InquiryStore    AdminInquiryStore
	DownloadStore   AdminDownloadStore

	// RecentLimit bounds the recent-members and recent-inquiries lists.
	// Zero means DefaultRecentLimit.
	RecentLimit int
}

// DefaultRecentLimit is how many recent rows each dashboard list shows.
const DefaultRecentLimit = 10

// MemberSummary pairs a recent member with their latest membership, when any.
type MemberSummary struct {
	Profile       profile.Profile
	HasMembership bool
	Membership    membership.Membership
	Category      membership.Category
}

// AdminDashboardResult carries the output of the admin dashboard projection.
type AdminDashboardResult struct {
	TotalMembers      int
	ActiveMemberships int
	TotalInquiries    int
	AppDownloads      int

	RecentMembers   []MemberSummary
	RecentInquiries []inquiry.Inquiry
}

// QueryGetAdminDashboard aggregates the admin overview: four counts plus the
// recent-members and recent-inquiries lists. The six reads run concurrently
// and any subset may fail; a failed read logs and leaves its zero value so
// the dashboard always renders.
func QueryGetAdminDashboard(ctx context.Context, deps GetAdminDashboardDeps) AdminDashboardResult {
	limit := deps.RecentLimit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var result AdminDashboardResult
	var wg sync.WaitGroup

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				slog.Warn("admin_event", "event", "dashboard_query_failed", "query", name, "error", err)
			}
		}()
	}

	run("count_members", func() error {
		n, err := deps.ProfileStore.CountMembers(ctx)
		if err != nil {
			return err
		}
		result.TotalMembers = n
		return nil
	})
	run("count_active_memberships", func() error {
		n, err := deps.MembershipStore.CountByStatus(ctx, membership.StatusActive)
		if err != nil {
			return err
		}
		result.ActiveMemberships = n
		return nil
	})
	run("count_inquiries", func() error {
		n, err := deps.InquiryStore.Count(ctx)
		if err != nil {
			return err
		}
		result.TotalInquiries = n
		return nil
	})
	run("count_downloads", func() error {
		n, err := deps.DownloadStore.Count(ctx)
		if err != nil {
			return err
		}
		result.AppDownloads = n
		return nil
	})
	run("recent_inquiries", func() error {
		rows, err := deps.InquiryStore.ListRecent(ctx, limit)
		if err != nil {
			return err
		}
		result.RecentInquiries = rows
		return nil
	})
	run("recent_members", func() error {
		profiles, err := deps.ProfileStore.ListRecentMembers(ctx, limit)
		if err != nil {
			return err
		}
		result.RecentMembers = summarizeMembers(ctx, profiles, deps.MembershipStore)
		return nil
	})

	wg.Wait()
	return result
}

// summarizeMembers attaches each profile's latest membership using a single
// batched read over the profile IDs.
func summarizeMembers(ctx context.Context, profiles []profile.Profile, store AdminMembershipStore) []MemberSummary {
	summaries := make([]MemberSummary, 0, len(profiles))
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}

	latest := map[string]membership.Membership{}
	if len(ids) > 0 {
		rows, err := store.ListByUserIDs(ctx, ids)
		if err != nil {
			slog.Warn("admin_event", "event", "dashboard_query_failed", "query", "memberships_for_members", "error", err)
		}
		for _, m := range rows {
			if cur, ok := latest[m.UserID]; !ok || m.CreatedAt.After(cur.CreatedAt) {
				latest[m.UserID] = m
			}
		}
	}

	for _, p := range profiles {
		s := MemberSummary{Profile: p}
		if m, ok := latest[p.ID]; ok {
			s.HasMembership = true
			s.Membership = m
			s.Category = membership.Classify(m.Status)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
