// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"

	"krishi-vaidya/internal/analysis"
	"krishi-vaidya/internal/config"
	"krishi-vaidya/internal/database"
	"krishi-vaidya/internal/engine"
	"krishi-vaidya/internal/handlers"
	"krishi-vaidya/internal/middleware"
	"krishi-vaidya/internal/utils"
	"krishi-vaidya/internal/websocket"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			slog.Error("failed to close MongoDB connection", "error", err)
		}
	}()

	metrics := utils.NewMetricsCollector()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, db, metrics)

	hub := websocket.NewHub()
	go hub.Run()

	sessions := middleware.NewSessionManager(cfg.SessionSecret)

	var analyzer analysis.Analyzer
	if cfg.Analysis.APIKey != "" {
		gemini, err := analysis.NewGeminiAnalyzer(context.Background(), cfg.Analysis.APIKey, cfg.Analysis.Model)
		if err != nil {
			slog.Error("failed to initialize crop analyzer", "error", err)
			os.Exit(1)
		}
		analyzer = gemini
	} else {
		slog.Warn("GEMINI_API_KEY not set, crop analysis disabled")
	}

	server := handlers.NewServer(system, eng, db, metrics, sessions, hub, analyzer, cfg.UploadDir)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", server.HandleHealth)

	mux.HandleFunc("/auth/signup", server.WithMetrics("signup", server.HandleSignup))
	mux.HandleFunc("/auth/login", server.WithMetrics("login", server.HandleLogin))
	mux.HandleFunc("/auth/logout", server.WithMetrics("logout", server.HandleLogout))
	mux.HandleFunc("/auth/profile", server.WithMetrics("profile",
		sessions.RequireSession(server.HandleProfile)))

	mux.HandleFunc("/marketplace/items", server.WithMetrics("products", server.HandleProducts))
	mux.HandleFunc("/marketplace/items/edit", server.WithMetrics("edit_product", server.HandleEditProduct))
	mux.HandleFunc("/marketplace/items/delete", server.WithMetrics("delete_product", server.HandleDeleteProduct))
	mux.HandleFunc("/marketplace/myfarm", server.WithMetrics("my_farm", server.HandleMyFarm))

	mux.HandleFunc("/community/posts", server.WithMetrics("community_posts", server.HandleCommunityPosts))
	mux.HandleFunc("/community/like", server.WithMetrics("like_post", server.HandleLikePost))
	mux.HandleFunc("/community/comment", server.WithMetrics("comment", server.HandleComment))
	mux.HandleFunc("/community/heroes", server.WithMetrics("harvest_heroes", server.HandleHarvestHeroes))

	mux.HandleFunc("/api/analyze-crop", server.WithMetrics("analyze_crop", server.HandleAnalyzeCrop))

	mux.HandleFunc("/ws", handlers.NewWebSocketHandler(hub, cfg.AllowedOrigins))

	// Uploaded listing images
	mux.Handle("/static/uploads/", http.StripPrefix("/static/uploads/",
		http.FileServer(http.Dir(cfg.UploadDir))))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins
	handler := middleware.CORSMiddleware(corsConfig)(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting server", "addr", addr, "db", cfg.Database.Name)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
