package app

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Sync control
	r.HandleFunc("/api/status", deps.SyncHandler.GetStatus).Methods("GET")
	r.HandleFunc("/api/sync/run", deps.SyncHandler.TriggerSync).Methods("POST")

	// Identity links and mirrored snapshots
	r.HandleFunc("/api/links", deps.SyncHandler.GetLinks).Methods("GET")
	r.HandleFunc("/api/snapshot/{email}", deps.SyncHandler.GetSnapshot).Methods("GET")
	r.HandleFunc("/api/snapshot/{email}/ical", deps.SyncHandler.GetSnapshotICal).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")
}
