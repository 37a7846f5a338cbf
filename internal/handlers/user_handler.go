package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adilzhan-s/lostfound/internal/config"
	"github.com/adilzhan-s/lostfound/internal/models"
	"github.com/adilzhan-s/lostfound/internal/services"
	jwtutil "github.com/adilzhan-s/lostfound/pkg/jwt"
	"github.com/adilzhan-s/lostfound/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles HTTP requests related to user accounts.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{Service: service, Config: cfg}
}

// RegisterUserHandler handles POST /api/users/register.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.RegisterUser(r.Context(), &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: req.Password,
	})
	if err != nil {
		log.WithError(err).Warn("Registration failed")
		respondError(w, err, "Failed to register")
		return
	}

	log.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	respondOK(w, "Registration successful", apiResponse{"user": created.Public()})
}

// LoginUserHandler handles POST /api/users/login.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if credentials.Password == "" {
		http.Error(w, "Password is required", http.StatusBadRequest)
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		log.WithField("username", credentials.Username).Warn("Authentication failed")
		respondJSON(w, http.StatusUnauthorized, apiResponse{
			"success": false,
			"message": "Invalid username or password",
		})
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, user.Role, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in successfully")
	respondOK(w, "Login successful", apiResponse{
		"token": token,
		"user":  user.Public(),
	})
}

// GetUserHandler handles GET /api/users/{id}: a user's public profile.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err, "User not found")
		return
	}

	respondOK(w, "User fetched", apiResponse{"user": user.Public()})
}
