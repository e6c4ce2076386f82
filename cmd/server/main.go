package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/PoolCheck-App/poolcheck_backend/config"
	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/database"
	httphandlers "github.com/PoolCheck-App/poolcheck_backend/internal/http"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/PoolCheck-App/poolcheck_backend/internal/mqtt"
	"github.com/PoolCheck-App/poolcheck_backend/internal/services"
	"github.com/PoolCheck-App/poolcheck_backend/internal/store"
	"github.com/PoolCheck-App/poolcheck_backend/internal/ws"
)

func main() {
	log.Println("🌊 Starting PoolCheck Chemical Testing Backend...")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found: %v", err)
	} else {
		log.Println("✅ Loaded .env file")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Loaded configuration: Server port=%s, DB host=%s",
		cfg.Server.Port, cfg.Database.Host)

	// Initialize data store with PostgreSQL or fallback to in-memory
	var dataStore store.DataStore

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to connect to database: %v", err)
		log.Println("📱 Falling back to in-memory storage")
		dataStore = store.NewStore(1000)
		log.Println("💾 Initialized in-memory data store")
	} else {
		log.Println("✅ Connected to PostgreSQL database")

		if err := database.CreateTables(db.DB); err != nil {
			log.Fatalf("❌ Failed to run migrations: %v", err)
		}

		dataStore = database.NewDatabaseStore(db.DB)
		log.Println("💾 Initialized PostgreSQL data store")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()
	log.Println("🔌 Started WebSocket hub")

	// Initialize MQTT client (skip if no broker URL configured)
	var mqttClient *mqtt.Client
	if cfg.MQTT.BrokerURL != "" && cfg.MQTT.BrokerURL != "tcp://localhost:1883" {
		log.Println("📡 Attempting to connect to MQTT broker...")

		client := mqtt.NewClient(&mqtt.Config{
			BrokerURL:     cfg.MQTT.BrokerURL,
			ClientID:      cfg.MQTT.ClientID,
			Username:      cfg.MQTT.Username,
			Password:      cfg.MQTT.Password,
			KeepAlive:     cfg.MQTT.KeepAlive,
			PingTimeout:   cfg.MQTT.PingTimeout,
			ConnectRetry:  cfg.MQTT.ConnectRetry,
			TopicTestData: cfg.MQTT.TopicTestData,
			TopicAlerts:   cfg.MQTT.TopicAlerts,
			DefaultPoolID: cfg.MQTT.DefaultPoolID,
		})

		// Store parsed tests and fan out results to dashboards
		client.SetDataHandler(func(test *models.PoolTest) {
			dataStore.AddTest(*test)
			wsHub.BroadcastPoolTest(test)

			report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
			wsHub.BroadcastComplianceReport(test.PoolID, &report)

			if decision := chemistry.ShouldClosePool(&test.ChemicalReading); decision.ShouldClose {
				wsHub.BroadcastClosureAlert(test.PoolID, &decision)
				if err := client.PublishClosureAlert(test.PoolID, &decision); err != nil {
					log.Printf("⚠️  Failed to publish closure alert: %v", err)
				}
			}
		})
		client.SetErrorHandler(func(err error) {
			wsHub.BroadcastError(err.Error())
		})

		if err := client.Connect(); err != nil {
			log.Printf("⚠️  Warning: Failed to connect to MQTT broker: %v", err)
			log.Println("📡 Continuing without MQTT support")
		} else {
			if err := client.SubscribeToTestData(); err != nil {
				log.Printf("⚠️  Warning: Failed to subscribe to test topics: %v", err)
			}
			log.Printf("📡 MQTT client connected - Broker: %s", cfg.MQTT.BrokerURL)
			mqttClient = client
			defer mqttClient.Disconnect()
		}
	} else {
		log.Println("📡 MQTT broker not configured, skipping MQTT initialization")
	}

	// Initialize and start compliance monitor
	var publisher services.AlertPublisher
	if mqttClient != nil {
		publisher = mqttClient
	}
	monitor := services.NewMonitor(dataStore, wsHub, publisher,
		cfg.Monitor.CheckInterval, cfg.Monitor.TrendWindow)
	monitor.Start()

	// Setup HTTP routes
	router := httphandlers.SetupRoutes(dataStore, wsHub, cfg.MQTT.DefaultPoolID)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Printf("🚀 Starting HTTP server on port %s", cfg.Server.Port)
		log.Println("📡 API endpoints available:")
		log.Println("  GET /api/v1/stats - System statistics")
		log.Println("  POST /api/v1/tests - Submit a chemical test")
		log.Println("  GET /api/v1/tests/latest - Latest test")
		log.Println("  GET /api/v1/tests/recent?limit=50 - Recent tests")
		log.Println("  GET /api/v1/tests/history - Tests in time range")
		log.Println("  GET /api/v1/compliance/latest - Compliance report for latest test")
		log.Println("  GET /api/v1/compliance/closure - Closure decision for latest test")
		log.Println("  GET /api/v1/adjustments/latest - Dosing adjustments for latest test")
		log.Println("  GET /api/v1/chemicals - Chemical standards table")
		log.Println("  GET /api/v1/chemicals/{chemical}/trend - Chemical trend")
		log.Println("  GET /api/v1/export/history.xlsx - Export history to Excel")
		log.Println("  GET /api/v1/export/history.csv - Export history to CSV")
		log.Println("  WS /ws - WebSocket for real-time updates")
		log.Printf("🌐 Server running at http://localhost:%s", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	// Stop monitor
	monitor.Stop()

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server shutdown complete")
}
