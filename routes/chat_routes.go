package routes

import (
	"amora_server/controllers"
	"amora_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for conversations and messages under
// /api/chat.
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()

	chatRouter.HandleFunc("/conversations", controller.ListConversations).Methods("GET")
	chatRouter.HandleFunc("/messages", controller.SendMessage).Methods("POST")
	chatRouter.HandleFunc("/conversations/{conversationId}/messages", controller.GetMessages).Methods("GET")
	chatRouter.HandleFunc("/conversations/{conversationId}/messages/{messageId}", controller.DeleteMessage).Methods("DELETE")
	chatRouter.HandleFunc("/conversations/{conversationId}/unread", controller.GetUnread).Methods("GET")
	chatRouter.HandleFunc("/conversations/{conversationId}/unread/reset", controller.ResetUnread).Methods("POST")
}
