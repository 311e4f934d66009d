package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/heathtechnical/FlareTracker-sub000/internal/auth"
	"github.com/heathtechnical/FlareTracker-sub000/internal/core"
	"github.com/heathtechnical/FlareTracker-sub000/internal/store"
)

type APIHandler struct {
	trackerService   *core.TrackerService
	insightService   *core.InsightService
	assistantService *core.AssistantService // nil when no API key is configured
}

func NewAPIHandler(tracker *core.TrackerService, insight *core.InsightService, assistant *core.AssistantService) *APIHandler {
	return &APIHandler{
		trackerService:   tracker,
		insightService:   insight,
		assistantService: assistant,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		email, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.trackerService.GetUserByEmail(email)
		if err != nil {
			log.Printf("Error in JWTAuthMiddleware for user %s: %v", email, err)
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.Email, err)
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user, err := h.trackerService.CreateUser(req.Email, hashedPassword)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.Email, err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.trackerService.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.Email, err)
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(req.Email)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.Email, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Condition handlers

type CreateConditionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (h *APIHandler) CreateConditionHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req CreateConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Condition name is required", http.StatusBadRequest)
		return
	}

	condition, err := h.trackerService.CreateCondition(userID, req.Name, req.Description)
	if err != nil {
		log.Printf("Error creating condition for user %d: %v", userID, err)
		http.Error(w, "Failed to create condition", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(condition)
}

func (h *APIHandler) ListConditionsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	conditions, err := h.trackerService.GetConditions(userID)
	if err != nil {
		log.Printf("Error listing conditions for user %d: %v", userID, err)
		http.Error(w, "Failed to list conditions", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(conditions)
}

func (h *APIHandler) DeleteConditionHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	conditionID := chi.URLParam(r, "conditionID")

	if err := h.trackerService.DeleteCondition(conditionID, userID); err != nil {
		http.Error(w, "Condition not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Medication handlers

type CreateMedicationRequest struct {
	Name   string  `json:"name"`
	Dosage *string `json:"dosage,omitempty"`
}

func (h *APIHandler) CreateMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req CreateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Medication name is required", http.StatusBadRequest)
		return
	}

	medication, err := h.trackerService.CreateMedication(userID, req.Name, req.Dosage)
	if err != nil {
		log.Printf("Error creating medication for user %d: %v", userID, err)
		http.Error(w, "Failed to create medication", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(medication)
}

func (h *APIHandler) ListMedicationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	medications, err := h.trackerService.GetMedications(userID)
	if err != nil {
		log.Printf("Error listing medications for user %d: %v", userID, err)
		http.Error(w, "Failed to list medications", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(medications)
}

func (h *APIHandler) DeleteMedicationHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	medicationID := chi.URLParam(r, "medicationID")

	if err := h.trackerService.DeleteMedication(medicationID, userID); err != nil {
		http.Error(w, "Medication not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Check-in handlers

type SaveCheckInRequest struct {
	ConditionEntries  []store.ConditionEntry  `json:"condition_entries"`
	MedicationEntries []store.MedicationEntry `json:"medication_entries"`
	Factors           store.Factors           `json:"factors"`
	Notes             *string                 `json:"notes,omitempty"`
}

func (h *APIHandler) SaveCheckInHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	date := chi.URLParam(r, "date")

	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var req SaveCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	checkIn := store.CheckIn{
		UserID:            userID,
		Date:              date,
		ConditionEntries:  req.ConditionEntries,
		MedicationEntries: req.MedicationEntries,
		Factors:           req.Factors,
		Notes:             req.Notes,
	}

	if err := h.trackerService.SaveCheckIn(&checkIn); err != nil {
		if strings.HasPrefix(err.Error(), "unknown") || strings.Contains(err.Error(), "must be between") {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error saving check-in for user %d on %s: %v", userID, date, err)
		http.Error(w, "Failed to save check-in", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(checkIn)
}

func (h *APIHandler) ListCheckInsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	checkIns, err := h.trackerService.GetCheckIns(userID)
	if err != nil {
		log.Printf("Error listing check-ins for user %d: %v", userID, err)
		http.Error(w, "Failed to list check-ins", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(checkIns)
}

func (h *APIHandler) GetCheckInHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	date := chi.URLParam(r, "date")

	checkIn, err := h.trackerService.GetCheckInByDate(userID, date)
	if err != nil {
		log.Printf("Error getting check-in for user %d on %s: %v", userID, date, err)
		http.Error(w, "Failed to get check-in", http.StatusInternalServerError)
		return
	}
	if checkIn == nil {
		http.Error(w, "Check-in not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(checkIn)
}

// Insight handlers

func (h *APIHandler) ListInsightsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	conditionInsights, err := h.insightService.GetAllConditionInsights(userID)
	if err != nil {
		log.Printf("Error computing insights for user %d: %v", userID, err)
		http.Error(w, "Failed to compute insights", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(conditionInsights)
}

func (h *APIHandler) GetConditionInsightHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)
	conditionID := chi.URLParam(r, "conditionID")

	insight, err := h.insightService.GetConditionInsight(userID, conditionID)
	if err != nil {
		log.Printf("Error computing insight for user %d, condition %s: %v", userID, conditionID, err)
		http.Error(w, "Failed to compute insight", http.StatusInternalServerError)
		return
	}
	if insight == nil {
		http.Error(w, "Condition not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(insight)
}

// Assistant handler

type AskAssistantRequest struct {
	Question string `json:"question"`
}

func (h *APIHandler) AskAssistantHandler(w http.ResponseWriter, r *http.Request) {
	if h.assistantService == nil {
		http.Error(w, "AI assistant is not configured", http.StatusServiceUnavailable)
		return
	}

	userID := r.Context().Value("userID").(int64)

	var req AskAssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "Question cannot be empty", http.StatusBadRequest)
		return
	}

	answer, err := h.assistantService.Ask(r.Context(), userID, req.Question)
	if err != nil {
		log.Printf("Error answering assistant question for user %d: %v", userID, err)
		http.Error(w, "Failed to answer question", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"answer": answer})
}
