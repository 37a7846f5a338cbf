package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhan-s/lostfound/internal/services"
	"github.com/adilzhan-s/lostfound/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// MatchHandler exposes the matching scan.
type MatchHandler struct {
	Service *services.MatchService
}

// NewMatchHandler creates a new instance of MatchHandler.
func NewMatchHandler(service *services.MatchService) *MatchHandler {
	return &MatchHandler{Service: service}
}

// MatchScanHandler handles POST /api/match-scan: returns the judge-approved
// shortlist for an item. It links nothing; accepting a suggestion goes
// through POST /api/links.
func (h *MatchHandler) MatchScanHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ItemID string `json:"itemID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.ItemID == "" {
		http.Error(w, "itemID is required", http.StatusBadRequest)
		return
	}

	matches, err := h.Service.FindCandidates(r.Context(), req.ItemID)
	if err != nil {
		logrus.WithError(err).WithField("itemID", req.ItemID).Warn("Matching scan failed")
		respondError(w, err, "Failed to scan for matches")
		return
	}

	respondOK(w, "Scan completed", apiResponse{"matches": matches})
}
