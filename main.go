package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"blink_server/config"
	"blink_server/routes"
	"blink_server/services"
	"blink_server/session"
	"blink_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	// Initialize DynamoDB client and services
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	matchService := &services.MatchService{Dynamo: dynamoService, Profiles: userProfileService}
	authService := services.NewAuthService(userProfileService, cfg.JWTSecret)
	helperService := &services.HelperService{}
	questionService := &services.QuestionService{}
	s3Service := &services.S3Service{Client: services.InitializeS3Client(), Bucket: cfg.S3Bucket}

	// Realtime coordination
	registry := session.NewRegistry()
	relay := session.NewRelay()
	socketServer := socket.NewServer()

	coordinator := session.NewCoordinator(registry, matchService, helperService, &socket.RoomBroadcaster{Server: socketServer})
	coordinator.Window = cfg.SessionWindow
	coordinator.Tick = cfg.TickInterval
	coordinator.AutoAccept = cfg.TestingAutoAccept
	if cfg.TestingAutoAccept {
		log.Println("⚠️ TESTING_AUTO_ACCEPT enabled: lone yes decisions resolve as mutual")
	}

	socket.RegisterHandlers(socketServer, coordinator, relay, userProfileService)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Background sweep for match records orphaned by a restart
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go matchService.RunSweeper(sweepCtx, cfg.SweepInterval, cfg.MatchGracePeriod)

	// Initialize the router
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"service": "blink"})
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterAuthRoutes(r, authService)
	routes.RegisterUserProfileRoutes(r, userProfileService, authService)
	routes.RegisterMatchRoutes(r, matchService, coordinator, authService)
	routes.RegisterQuestionRoutes(r, questionService)
	routes.RegisterS3Routes(r, s3Service, authService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
