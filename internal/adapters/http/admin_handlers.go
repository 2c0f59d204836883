package web

import (
	"net/http"

	"tigeriron/internal/application/projections"
)

// handleAdmin renders the admin overview. Mounted behind RequireAdmin.
func handleAdmin(w http.ResponseWriter, r *http.Request) {
	deps := projections.GetAdminDashboardDeps{
		ProfileStore:    stores.ProfileStore,
		MembershipStore: stores.MembershipStore,
		InquiryStore:    stores.InquiryStore,
		DownloadStore:   stores.DownloadStore,
	}
	result := projections.QueryGetAdminDashboard(r.Context(), deps)
	renderTemplate(w, r, "admin.html", map[string]any{
		"Dashboard": result,
	})
}

// handleAdminExportInquiries streams every inquiry as a CSV download.
// Mounted behind RequireAdmin.
func handleAdminExportInquiries(w http.ResponseWriter, r *http.Request) {
	deps := projections.ExportInquiriesDeps{
		InquiryStore: stores.InquiryStore,
	}
	result, err := projections.QueryExportInquiries(r.Context(), deps, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	_, _ = w.Write(result.Data)
}
