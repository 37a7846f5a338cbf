package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhan-s/lostfound/internal/services"
	"github.com/adilzhan-s/lostfound/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler exposes case message threads over HTTP and pushes sent
// messages to connected receivers through the hub.
type ChatHandler struct {
	Service *services.ChatService
	Hub     *Hub
}

// NewChatHandler creates a new instance of ChatHandler.
func NewChatHandler(service *services.ChatService, hub *Hub) *ChatHandler {
	return &ChatHandler{Service: service, Hub: hub}
}

// SendMessageHandler handles POST /api/messages. The sender is the
// authenticated user; the receiver is derived server-side.
func (h *ChatHandler) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	senderID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	var req struct {
		LostItemID  string `json:"lostItemID"`
		FoundItemID string `json:"foundItemID"`
		Content     string `json:"content,omitempty"`
		ImageURL    string `json:"imageURL,omitempty"`
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

	content, isImage := req.Content, false
	if req.ImageURL != "" {
		content, isImage = req.ImageURL, true
	}

	msg, err := h.Service.SendMessage(r.Context(), senderID, req.LostItemID, req.FoundItemID, content, isImage)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"senderID":   claims.UserID,
			"lostItemID": req.LostItemID,
		}).Warn("Message rejected")
		respondError(w, err, "Failed to send message")
		return
	}

	// Best-effort live delivery to an online receiver.
	h.Hub.Push(msg.ReceiverID.Hex(), msg)

	extra := apiResponse{"sentTime": msg.SentTime}
	if isImage {
		extra["content"] = msg.Content
	}
	respondOK(w, "Message sent", extra)
}

// GetMessagesHandler handles GET /api/messages/{lostItemID}/{foundItemID}:
// the full thread, oldest first.
func (h *ChatHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	messages, err := h.Service.ListMessages(r.Context(), vars["lostItemID"], vars["foundItemID"])
	if err != nil {
		respondError(w, err, "Failed to fetch messages")
		return
	}

	respondOK(w, "Messages fetched", apiResponse{"messages": messages})
}

// GetChatsHandler handles GET /api/chats: the authenticated user's live-case
// chat list.
func (h *ChatHandler) GetChatsHandler(w http.ResponseWriter, r *http.Request) {
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

	chats, err := h.Service.ListChatsForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err, "Failed to fetch chats")
		return
	}

	respondOK(w, "Chats fetched", apiResponse{"chats": chats})
}
