package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/models"
	"github.com/kshrestha1-godaddy/money-manager-sub008/internal/server/services"
)

// maxErrorsInResponse caps the errors echoed back by the trigger surface so
// the payload stays bounded; the full list is always logged.
const maxErrorsInResponse = 5

// --- check-ins ---

type checkInResponse struct {
	ID        string    `json:"id"`
	CheckinAt time.Time `json:"checkin_at"`
}

func (s *Server) handleRecordCheckIn(w http.ResponseWriter, r *http.Request) {
	c, err := s.activity.RecordCheckIn(r.Context(), userIDFrom(r.Context()), r.RemoteAddr, r.UserAgent())
	if err != nil {
		s.logger.Error(r.Context(), "record check-in failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkInResponse{ID: c.ID, CheckinAt: c.CheckinAt})
}

type lastCheckInResponse struct {
	LastCheckIn *time.Time `json:"last_check_in"`
}

func (s *Server) handleLastCheckIn(w http.ResponseWriter, r *http.Request) {
	last, err := s.activity.LastCheckIn(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.logger.Error(r.Context(), "last check-in lookup failed", "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lastCheckInResponse{LastCheckIn: last})
}

// --- contacts ---

type contactRequest struct {
	Email    string  `json:"email"`
	Label    string  `json:"label,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	NewEmail *string `json:"new_email,omitempty"`
}

type contactResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Label     string    `json:"label,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toContactResponse(c *models.EmergencyContact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Email:     c.Email,
		Label:     c.Label,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.logger.Error(r.Context(), "contact list failed", "error", err)
		writeServiceError(w, err)
		return
	}
	out := make([]contactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toContactResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.contacts.Add(r.Context(), userIDFrom(r.Context()), req.Email, req.Label)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContactResponse(c))
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := &models.ContactPatch{Email: req.NewEmail, IsActive: req.IsActive}
	if req.Label != "" {
		patch.Label = &req.Label
	}

	if err := s.contacts.Update(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), patch); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeactivateContact(w http.ResponseWriter, r *http.Request) {
	if err := s.contacts.Deactivate(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveContact(w http.ResponseWriter, r *http.Request) {
	if err := s.contacts.Remove(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- credentials ---

type credentialRequest struct {
	SecretKey   string     `json:"secret_key"`
	WebsiteName string     `json:"website_name"`
	Description string     `json:"description,omitempty"`
	Username    string     `json:"username"`
	Secret      string     `json:"secret"`
	Pin         string     `json:"pin,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Category    string     `json:"category,omitempty"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
}

type credentialResponse struct {
	ID          string     `json:"id"`
	WebsiteName string     `json:"website_name"`
	Description string     `json:"description,omitempty"`
	Username    string     `json:"username"`
	HasPin      bool       `json:"has_pin"`
	Notes       string     `json:"notes,omitempty"`
	Category    string     `json:"category,omitempty"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toCredentialResponse(c *models.Credential) credentialResponse {
	return credentialResponse{
		ID:          c.ID,
		WebsiteName: c.WebsiteName,
		Description: c.Description,
		Username:    c.Username,
		HasPin:      len(c.EncryptedPin) > 0,
		Notes:       c.Notes,
		Category:    c.Category,
		ValidUntil:  c.ValidUntil,
		CreatedAt:   c.CreatedAt,
	}
}

func (s *Server) handleAddCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := s.credentials.Add(r.Context(), userIDFrom(r.Context()), req.SecretKey, &services.CredentialInput{
		WebsiteName: req.WebsiteName,
		Description: req.Description,
		Username:    req.Username,
		Secret:      req.Secret,
		Pin:         req.Pin,
		Notes:       req.Notes,
		Category:    req.Category,
		ValidUntil:  req.ValidUntil,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCredentialResponse(c))
}

func (s *Server) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	list, err := s.credentials.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.logger.Error(r.Context(), "credential list failed", "error", err)
		writeServiceError(w, err)
		return
	}
	out := make([]credentialResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCredentialResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- manual share ---

type shareRequest struct {
	SecretKey  string   `json:"secret_key"`
	Reason     string   `json:"reason,omitempty"`
	Recipients []string `json:"recipients,omitempty"`
}

type shareResponse struct {
	Success      bool     `json:"success"`
	SharedCount  int      `json:"shared_count"`
	FailedEmails []string `json:"failed_emails,omitempty"`
	FailedItems  []string `json:"failed_items,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reason := models.ShareReason(req.Reason)
	if req.Reason == "" {
		reason = models.ReasonManual
	}

	result, err := s.disclosure.Share(r.Context(), &services.ShareRequest{
		UserID:     userIDFrom(r.Context()),
		SecretKey:  req.SecretKey,
		Reason:     reason,
		Recipients: req.Recipients,
	})
	if err != nil {
		if result != nil {
			// Precondition failure with per-item diagnostics.
			writeJSON(w, http.StatusUnprocessableEntity, shareResponse{
				FailedItems: result.FailedItems,
				Error:       err.Error(),
			})
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{
		Success:      result.Success,
		SharedCount:  result.SharedCount,
		FailedEmails: result.FailedEmails,
		FailedItems:  result.FailedItems,
	})
}

// --- trigger surface ---

type sweepResponse struct {
	ProcessedUsers   int      `json:"processed_users"`
	SuccessfulShares int      `json:"successful_shares,omitempty"`
	EmailsSent       int      `json:"emails_sent,omitempty"`
	Errors           []string `json:"errors,omitempty"`
	ErrorCount       int      `json:"error_count"`
}

func (s *Server) handleDisclosureSweep(w http.ResponseWriter, r *http.Request) {
	summary, err := s.sweeps.RunDisclosureSweep(r.Context(), s.cfg.DisclosureThresholdDays)
	if err != nil {
		s.logger.Error(r.Context(), "disclosure sweep failed", "error", err)
		writeServiceError(w, err)
		return
	}
	if len(summary.Errors) > 0 {
		s.logger.Warn(r.Context(), "disclosure sweep completed with errors", "errors", summary.Errors)
	}
	writeJSON(w, http.StatusOK, toSweepResponse(summary))
}

func (s *Server) handleReminderSweep(w http.ResponseWriter, r *http.Request) {
	summary, err := s.sweeps.RunReminderSweep(r.Context(), s.cfg.ReminderThresholdDays)
	if err != nil {
		s.logger.Error(r.Context(), "reminder sweep failed", "error", err)
		writeServiceError(w, err)
		return
	}
	if len(summary.Errors) > 0 {
		s.logger.Warn(r.Context(), "reminder sweep completed with errors", "errors", summary.Errors)
	}
	writeJSON(w, http.StatusOK, toSweepResponse(summary))
}

func toSweepResponse(summary *services.SweepSummary) sweepResponse {
	resp := sweepResponse{
		ProcessedUsers:   summary.ProcessedUsers,
		SuccessfulShares: summary.SuccessfulShares,
		EmailsSent:       summary.EmailsSent,
		Errors:           summary.Errors,
		ErrorCount:       len(summary.Errors),
	}
	if len(resp.Errors) > maxErrorsInResponse {
		resp.Errors = resp.Errors[:maxErrorsInResponse]
	}
	return resp
}
