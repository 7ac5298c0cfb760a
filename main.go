package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"amora_server/metrics"
	"amora_server/middleware"
	"amora_server/routes"
	"amora_server/services"
	"amora_server/socket"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Redis for presence
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisClient := services.InitializeRedisClient(redisAddr)

	// Initialize S3 presigning
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	s3Service := services.NewS3Service(s3.NewFromConfig(cfg), os.Getenv("S3_BUCKET_NAME"))

	// Stores
	userDirectory := &services.UserDirectory{Dynamo: dynamoService}
	swipeLedger := &services.SwipeLedger{Dynamo: dynamoService}
	matchStore := &services.MatchStore{Dynamo: dynamoService}
	conversationStore := &services.ConversationStore{Dynamo: dynamoService}
	messageStore := &services.MessageStore{Dynamo: dynamoService}

	// Adapters
	notificationService := services.NewNotificationService()
	presenceService := &services.PresenceService{Redis: redisClient, Profiles: userDirectory}
	suggestionService := services.NewSuggestionService(os.Getenv("OPENAI_API_KEY"))

	// Socket server and realtime broadcaster
	socketServer := socket.NewSocketServer(presenceService)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server failed: %v", err)
		}
	}()
	defer socketServer.Close()
	broadcaster := &socket.Broadcaster{Server: socketServer}

	// Domain services
	matchService := &services.MatchService{
		Matches:  matchStore,
		Profiles: userDirectory,
		Presence: presenceService,
	}
	discoveryService := &services.DiscoveryService{
		Profiles: userDirectory,
		Swipes:   swipeLedger,
		Matches:  matchService,
		Notify:   notificationService,
		Realtime: broadcaster,
	}
	chatService := &services.ChatService{
		Conversations: conversationStore,
		Messages:      messageStore,
		Matches:       matchStore,
		Profiles:      userDirectory,
		Notify:        notificationService,
		Realtime:      broadcaster,
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Require bearer tokens on the API surface when a secret is configured
	if os.Getenv("JWT_SECRET") != "" {
		r.Use(func(next http.Handler) http.Handler {
			authed := middleware.Auth(next)
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if strings.HasPrefix(req.URL.Path, "/api/") {
					authed.ServeHTTP(w, req)
					return
				}
				next.ServeHTTP(w, req)
			})
		})
	}

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Amora")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Metrics and realtime endpoints
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterUserProfileRoutes(r, userDirectory)
	routes.RegisterDiscoveryRoutes(r, discoveryService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterChatRoutes(r, chatService)
	routes.RegisterSuggestionRoutes(r, suggestionService, userDirectory, matchService)
	routes.RegisterS3Routes(r, s3Service)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
