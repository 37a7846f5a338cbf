package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhan-s/lostfound/internal/services"
	"github.com/adilzhan-s/lostfound/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseHandler exposes the claim/link/resolve protocol over HTTP.
type CaseHandler struct {
	Service *services.CaseService
}

// NewCaseHandler creates a new instance of CaseHandler.
func NewCaseHandler(service *services.CaseService) *CaseHandler {
	return &CaseHandler{Service: service}
}

// InitiateClaimHandler handles POST /api/claims. The claimant is the
// authenticated user; an existing lost item reference is optional.
func (h *CaseHandler) InitiateClaimHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	claimantID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	var req struct {
		FoundItemID     string `json:"foundItemID"`
		MatchLostItemID string `json:"matchLostItemID,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid claim payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.FoundItemID == "" {
		http.Error(w, "foundItemID is required", http.StatusBadRequest)
		return
	}

	lostID, foundID, err := h.Service.InitiateClaim(r.Context(), claimantID, req.FoundItemID, req.MatchLostItemID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"claimantID":  claims.UserID,
			"foundItemID": req.FoundItemID,
		}).Warn("Claim rejected")
		respondError(w, err, "Failed to initiate claim")
		return
	}

	respondOK(w, "Claim accepted, private chat opened", apiResponse{
		"lostItemID":  lostID,
		"foundItemID": foundID,
	})
}

// LinkItemsHandler handles POST /api/links. Any authenticated user may act
// as the matching operator.
func (h *CaseHandler) LinkItemsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	operatorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	var req struct {
		LostItemID  string `json:"lostItemID"`
		FoundItemID string `json:"foundItemID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.LostItemID == "" || req.FoundItemID == "" {
		http.Error(w, "lostItemID and foundItemID are required", http.StatusBadRequest)
		return
	}

	if err := h.Service.LinkItems(r.Context(), operatorID, req.LostItemID, req.FoundItemID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"operatorID":  claims.UserID,
			"lostItemID":  req.LostItemID,
			"foundItemID": req.FoundItemID,
		}).Warn("Link rejected")
		respondError(w, err, "Failed to link items")
		return
	}

	respondOK(w, "Items linked, both owners notified", nil)
}

// ResolveHandler handles POST /api/resolve: the lost item's owner closes or
// reopens the case.
func (h *CaseHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	var req struct {
		LostItemID  string `json:"lostItemID"`
		FoundItemID string `json:"foundItemID"`
		Action      string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.LostItemID == "" || req.FoundItemID == "" || req.Action == "" {
		http.Error(w, "lostItemID, foundItemID and action are required", http.StatusBadRequest)
		return
	}

	if err := h.Service.Resolve(r.Context(), userID, req.LostItemID, req.FoundItemID, req.Action); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"userID":     claims.UserID,
			"lostItemID": req.LostItemID,
			"action":     req.Action,
		}).Warn("Resolve rejected")
		respondError(w, err, "Failed to resolve case")
		return
	}

	message := "Case closed, items marked as recovered"
	if req.Action == services.ActionNotFound {
		message = "Match cancelled, case dissolved"
	}
	respondOK(w, message, nil)
}
