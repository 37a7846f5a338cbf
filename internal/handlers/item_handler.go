package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/adilzhan-s/lostfound/internal/services"
	"github.com/adilzhan-s/lostfound/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemHandler handles HTTP requests for posting and browsing item reports.
type ItemHandler struct {
	Service *services.ItemService
}

// NewItemHandler creates a new instance of ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{Service: service}
}

// CreateItemHandler handles POST /api/items.
func (h *ItemHandler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
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
		Type        models.ItemType `json:"type"`
		Name        string          `json:"name"`
		Category    string          `json:"category"`
		Color       string          `json:"color"`
		Location    string          `json:"location"`
		Description string          `json:"description"`
		ImageURL    string          `json:"imageURL"`
		EventTime   time.Time       `json:"eventTime"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logrus.WithError(err).Warn("Invalid item payload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	item, err := h.Service.CreateItem(r.Context(), &models.Item{
		UserID:      userID,
		Type:        req.Type,
		Name:        req.Name,
		Category:    req.Category,
		Color:       req.Color,
		Location:    req.Location,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		EventTime:   req.EventTime,
	})
	if err != nil {
		respondError(w, err, "Failed to post item")
		return
	}

	respondOK(w, "Item posted successfully", apiResponse{"itemID": item.ItemID, "item": item})
}

// GetItemsHandler handles GET /api/items?type=&search=&category=.
func (h *ItemHandler) GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	itemType := models.ItemType(r.URL.Query().Get("type"))
	search := r.URL.Query().Get("search")
	categories := r.URL.Query()["category"]

	items, err := h.Service.ListItems(r.Context(), itemType, search, categories)
	if err != nil {
		respondError(w, err, "Failed to fetch items")
		return
	}

	respondOK(w, "Items fetched", apiResponse{"items": items})
}

// GetItemHandler handles GET /api/items/{id}: the item plus its poster's
// username.
func (h *ItemHandler) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]

	item, posterUsername, err := h.Service.GetItemDetail(r.Context(), itemID)
	if err != nil {
		respondError(w, err, "Item not found")
		return
	}

	respondOK(w, "Item fetched", apiResponse{"item": item, "posterUsername": posterUsername})
}

// GetUserItemsHandler handles GET /api/items/user/{id}?type=&status=.
func (h *ItemHandler) GetUserItemsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	itemType := models.ItemType(r.URL.Query().Get("type"))
	status := models.ItemStatus(r.URL.Query().Get("status"))

	items, err := h.Service.ListUserItems(r.Context(), userID, itemType, status)
	if err != nil {
		respondError(w, err, "Failed to fetch user items")
		return
	}

	respondOK(w, "Items fetched", apiResponse{"items": items})
}

// UpdateItemHandler handles PUT /api/items/{id}: the owner edits the
// descriptive fields of their report.
func (h *ItemHandler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	itemID := mux.Vars(r)["id"]
	item, err := h.Service.UpdateItem(r.Context(), requesterID, itemID, patch)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"userID": claims.UserID,
			"itemID": itemID,
		}).Warn("Item update rejected")
		respondError(w, err, "Failed to update item")
		return
	}

	respondOK(w, "Item updated", apiResponse{"item": item})
}

// DeleteItemHandler handles DELETE /api/items/{id}: owner or admin soft
// delete.
func (h *ItemHandler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	itemID := mux.Vars(r)["id"]
	if err := h.Service.DeleteItem(r.Context(), requesterID, claims.Role, itemID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"userID": claims.UserID,
			"itemID": itemID,
		}).Warn("Item deletion rejected")
		respondError(w, err, "Failed to delete item")
		return
	}

	respondOK(w, "Item deleted", nil)
}
