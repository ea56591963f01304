package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"blockfall/internal/api"
	"blockfall/internal/config"
	"blockfall/internal/engine"
	"blockfall/internal/highscore"
	"blockfall/internal/render"
	"blockfall/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🧱 ================================")
	log.Println("🧱  BLOCKFALL - GO ENGINE")
	log.Println("🧱 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	boardCfg := appConfig.Board
	timingCfg := appConfig.Timing
	serverCfg := appConfig.Server

	port := strconv.Itoa(serverCfg.Port)
	log.Printf("🧱 Board: %dx%d (%d hidden rows), clear delay %v",
		boardCfg.Width, boardCfg.Height, boardCfg.HiddenRows, timingCfg.ClearDelay)

	rules := engine.Rules{
		Width:      boardCfg.Width,
		Height:     boardCfg.Height,
		HiddenRows: boardCfg.HiddenRows,
		SpawnX:     boardCfg.SpawnX,
		SpawnY:     boardCfg.SpawnY,
	}

	// Best-score store
	scores, err := highscore.Open(serverCfg.HighScoreDir)
	if err != nil {
		log.Fatalf("Failed to open high score store: %v", err)
	}
	log.Printf("🏆 Best score so far: %d", scores.Best().Score)

	// Event journal
	eventLog := session.NewEventLog()
	if serverCfg.EventLogPath != "" {
		if err := eventLog.Start(serverCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event journal disabled: %v", err)
			eventLog = nil
		} else {
			log.Printf("📝 Event journal: %s", serverCfg.EventLogPath)
		}
	} else {
		eventLog = nil
	}

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Session host. The API server is created right after and receives
	// every snapshot through the OnChange hook.
	var server *api.Server
	host := session.NewHost(session.Config{
		Rules:      rules,
		ClearDelay: timingCfg.ClearDelay,
		EventLog:   eventLog,
		OnChange: func(snap session.Snapshot) {
			if server != nil {
				server.PublishSnapshot(snap)
			}
		},
		OnGameOver: func(final engine.State) {
			api.RecordGameOver()
			api.RecordLinesCleared(final.Lines)
			improved, err := scores.Submit(highscore.Record{
				Score:    final.Score,
				Lines:    final.Lines,
				Level:    final.Level,
				MaxCombo: final.Stats.MaxCombo,
			})
			if err != nil {
				log.Printf("⚠️ Failed to persist high score: %v", err)
				return
			}
			if improved {
				log.Printf("🏆 New high score: %d (%d lines, level %d)", final.Score, final.Lines, final.Level)
			}
		},
	})

	server = api.NewServer(host, render.New(rules), scores)

	// Start API server in goroutine
	go func() {
		addr := ":" + port
		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	host.Stop()
	if eventLog != nil {
		eventLog.Stop()
	}
	server.Stop()
	log.Println("👋 Goodbye!")
}
