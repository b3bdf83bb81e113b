package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voyago/db"
	"voyago/filemgr"
	"voyago/live"
	"voyago/mq"
	"voyago/notifications"
	"voyago/plans"
	"voyago/profile"
	"voyago/ratelim"
	"voyago/rdx"
	"voyago/reminder"
	"voyago/routes"
	"voyago/trips"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Mongo
	client, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	colls := db.NewCollections(client)

	// Redis: events and reminder dedupe degrade gracefully without it
	redisConn, err := rdx.Connect(ctx)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, events and reminder dedupe disabled: %v", err)
		redisConn = nil
	}
	events := mq.NewEmitter(redisConn)
	var dedupe *rdx.Dedupe
	if redisConn != nil {
		dedupe = rdx.NewDedupe(redisConn)
		go events.StartWorker(ctx)
	}

	// push sender; without credentials the gateway only writes inbox records
	var sender notifications.Sender
	if credFile := os.Getenv("FIREBASE_CREDENTIALS"); credFile != "" {
		fcm, err := notifications.NewFcmSender(ctx, credFile)
		if err != nil {
			log.Fatalf("❌ FCM init failed: %v", err)
		}
		sender = fcm
	} else {
		log.Println("⚠️ FIREBASE_CREDENTIALS not set; push delivery disabled")
		sender = notifications.NopSender{}
	}

	// stores
	tripStore := trips.NewStore(colls.Trips)
	planStore := plans.NewStore(colls.Plans)
	followStore := profile.NewFollowStore(colls.Followings)
	directory := profile.NewDirectory(colls.Users)
	deviceStore := notifications.NewDeviceStore(colls.UserDevice)
	inboxStore := notifications.NewInboxStore(colls.Notifications)
	fileMgr := filemgr.NewManager("static/uploads")

	// live hub
	hub := live.NewHub()
	go hub.Run()

	// services
	gateway := notifications.NewGateway(deviceStore, inboxStore, sender, hub)
	tripService := trips.NewService(tripStore, planStore, fileMgr, directory, followStore, events)

	// daily reminder sweep
	reminderAt := os.Getenv("REMINDER_AT")
	if reminderAt == "" {
		reminderAt = "08:00"
	}
	var claimer reminder.Claimer
	if dedupe != nil {
		claimer = dedupe
	}
	scheduler := reminder.NewScheduler(tripStore, deviceStore, gateway, claimer, reminderAt)
	go scheduler.Run(ctx)

	// handlers and routes
	rateLimiter := ratelim.NewRateLimiter()
	router := httprouter.New()
	router.GET("/health", Index)

	tripHandlers := trips.NewHandlers(tripService)
	routes.AddTripRoutes(router, rateLimiter, tripHandlers)
	routes.AddPlanRoutes(router, tripHandlers)
	routes.AddProfileRoutes(router, profile.NewHandlers(followStore, directory, events))
	routes.AddNotificationRoutes(router, rateLimiter, notifications.NewHandlers(deviceStore, inboxStore, gateway))
	routes.AddUploadRoutes(router, rateLimiter, filemgr.NewHandlers(fileMgr))
	routes.AddLiveRoutes(router, hub)
	routes.AddStaticRoutes(router)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down live hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
