package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"amora_server/services"

	"github.com/gorilla/mux"
)

// ChatController handles conversations and messages.
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance.
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// ListConversations returns the user's conversations with previews.
func (cc *ChatController) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	conversations, err := cc.ChatService.ListConversations(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

// SendMessage delivers a message within a match.
func (cc *ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		MatchID  string `json:"matchId"`
		SenderID string `json:"senderId"`
		Type     string `json:"type"`
		Text     string `json:"text"`
		MediaURL string `json:"mediaUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.MatchID == "" || payload.SenderID == "" {
		respondError(w, http.StatusBadRequest, "matchId and senderId are required")
		return
	}

	message, err := cc.ChatService.SendMessage(r.Context(), payload.MatchID, payload.SenderID, services.SendMessageRequest{
		Type:     payload.Type,
		Text:     payload.Text,
		MediaURL: payload.MediaURL,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, message)
}

// GetMessages returns a conversation's messages oldest-first and marks
// the caller's messages read.
func (cc *ChatController) GetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]
	userID := r.URL.Query().Get("userId")
	if conversationID == "" || userID == "" {
		respondError(w, http.StatusBadRequest, "conversationId and userId are required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	messages, err := cc.ChatService.GetMessages(r.Context(), conversationID, userID, r.URL.Query().Get("before"), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// DeleteMessage soft-deletes a message sent by the caller.
func (cc *ChatController) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	conversationID := vars["conversationId"]
	messageID := vars["messageId"]

	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := cc.ChatService.DeleteMessage(r.Context(), conversationID, messageID, payload.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Message deleted"})
}

// GetUnread returns the caller's unread counter for a conversation.
func (cc *ChatController) GetUnread(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]
	userID := r.URL.Query().Get("userId")
	if conversationID == "" || userID == "" {
		respondError(w, http.StatusBadRequest, "conversationId and userId are required")
		return
	}

	count, err := cc.ChatService.GetUnread(r.Context(), conversationID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"unreadCount": count})
}

// ResetUnread zeroes the caller's unread counter for a conversation.
func (cc *ChatController) ResetUnread(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["conversationId"]

	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := cc.ChatService.ResetUnread(r.Context(), conversationID, payload.UserID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Unread count reset"})
}
