package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron"

	"github.com/huddleapp/huddle/internal/clock"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/database"
	"github.com/huddleapp/huddle/internal/mail"
	"github.com/huddleapp/huddle/internal/repository"
	memoryrepo "github.com/huddleapp/huddle/internal/repository/memory"
	postgresrepo "github.com/huddleapp/huddle/internal/repository/postgres"
	"github.com/huddleapp/huddle/internal/service"
	"github.com/huddleapp/huddle/internal/transport/http/handlers"
	"github.com/huddleapp/huddle/internal/transport/http/middleware"
	"github.com/huddleapp/huddle/internal/transport/ws"
)

type repos struct {
	users      repository.UserRepository
	channels   repository.ChannelRepository
	dms        repository.DMRepository
	messages   repository.MessageRepository
	invites    repository.InviteRepository
	attendance repository.AttendanceRepository
	leaves     repository.LeaveRepository
}

func main() {
	cfg := config.Load()

	// Repositories
	var r repos
	switch cfg.Store {
	case "postgres":
		pool, err := database.Connect(cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		log.Println("Connected to database")

		r = repos{
			users:      postgresrepo.NewUserRepo(pool),
			channels:   postgresrepo.NewChannelRepo(pool),
			dms:        postgresrepo.NewDMRepo(pool),
			messages:   postgresrepo.NewMessageRepo(pool),
			invites:    postgresrepo.NewInviteRepo(pool),
			attendance: postgresrepo.NewAttendanceRepo(pool),
			leaves:     postgresrepo.NewLeaveRepo(pool),
		}
	case "memory":
		userRepo := memoryrepo.NewUserRepo()
		r = repos{
			users:      userRepo,
			channels:   memoryrepo.NewChannelRepo(),
			dms:        memoryrepo.NewDMRepo(),
			messages:   memoryrepo.NewMessageRepo(),
			invites:    memoryrepo.NewInviteRepo(userRepo),
			attendance: memoryrepo.NewAttendanceRepo(),
			leaves:     memoryrepo.NewLeaveRepo(),
		}
		log.Println("Using in-memory store")
	default:
		log.Fatalf("unknown STORE %q (want memory or postgres)", cfg.Store)
	}

	// Mail provider
	var mailer mail.Sender
	if cfg.MailAPIURL != "" {
		mailer = mail.NewAPIClient(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	} else {
		mailer = mail.LogSender{}
	}

	// Services
	clk := clock.System()
	authService := service.NewAuthService(r.users, cfg.JWTSecret)
	directoryService := service.NewDirectoryService(r.users, r.channels, r.dms)
	messageService := service.NewMessageService(r.messages, r.channels, r.dms)
	inviteService := service.NewInviteService(r.invites, r.users, mailer, clk, cfg.InviteTTL, cfg.BaseURL)
	attendanceService := service.NewAttendanceService(r.attendance, clk, time.Second)
	leaveService := service.NewLeaveService(r.leaves, r.users)
	summaryService := service.NewSummaryService(cfg.SummaryAPIURL, cfg.SummaryAPIKey, cfg.SummaryModel)

	// WebSocket hub; message events fan out to connected clients.
	hub := ws.NewHub(directoryService)
	go hub.Run()
	messageService.SetNotifier(ws.NewHubNotifier(hub))

	// Expired invites are swept hourly.
	sweeper := cron.New()
	sweeper.AddFunc("@hourly", func() {
		inviteService.SweepExpired(context.Background())
	})
	sweeper.Start()
	defer sweeper.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(directoryService, inviteService)
	channelHandler := handlers.NewChannelHandler(directoryService)
	messageHandler := handlers.NewMessageHandler(messageService)
	inviteHandler := handlers.NewInviteHandler(inviteService, authService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	leaveHandler := handlers.NewLeaveHandler(leaveService)
	summaryHandler := handlers.NewSummaryHandler(directoryService, messageService, summaryService)

	// Auth middleware
	auth := middleware.Auth(cfg.JWTSecret)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/invites/verify", inviteHandler.Verify)
	mux.HandleFunc("POST /api/v1/invites/accept", inviteHandler.Accept)

	// Protected - Users
	mux.Handle("GET /api/v1/users/me", auth(http.HandlerFunc(userHandler.Me)))
	mux.Handle("PATCH /api/v1/users/me", auth(http.HandlerFunc(userHandler.UpdateProfile)))
	mux.Handle("GET /api/v1/users", auth(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /api/v1/users/roster", auth(http.HandlerFunc(userHandler.Roster)))
	mux.Handle("GET /api/v1/users/{id}", auth(http.HandlerFunc(userHandler.Get)))
	mux.Handle("PATCH /api/v1/users/{id}/role", auth(http.HandlerFunc(userHandler.SetRole)))
	mux.Handle("POST /api/v1/users/{id}/dm", auth(http.HandlerFunc(userHandler.OpenDM)))

	// Protected - Channels
	mux.Handle("POST /api/v1/channels", auth(http.HandlerFunc(channelHandler.Create)))
	mux.Handle("GET /api/v1/channels", auth(http.HandlerFunc(channelHandler.List)))
	mux.Handle("GET /api/v1/channels/{id}", auth(http.HandlerFunc(channelHandler.Get)))
	mux.Handle("POST /api/v1/channels/{id}/members", auth(http.HandlerFunc(channelHandler.AddMember)))
	mux.Handle("DELETE /api/v1/channels/{id}/members/{uid}", auth(http.HandlerFunc(channelHandler.RemoveMember)))

	// Protected - Messages
	mux.Handle("POST /api/v1/conversations/{id}/messages", auth(http.HandlerFunc(messageHandler.Send)))
	mux.Handle("GET /api/v1/conversations/{id}/messages", auth(http.HandlerFunc(messageHandler.List)))
	mux.Handle("PATCH /api/v1/conversations/{id}/messages/{mid}", auth(http.HandlerFunc(messageHandler.Edit)))
	mux.Handle("DELETE /api/v1/conversations/{id}/messages/{mid}", auth(http.HandlerFunc(messageHandler.Delete)))
	mux.Handle("POST /api/v1/conversations/{id}/messages/{mid}/reactions", auth(http.HandlerFunc(messageHandler.ToggleReaction)))
	mux.Handle("POST /api/v1/conversations/{id}/summary", auth(http.HandlerFunc(summaryHandler.Summarize)))

	// Protected - Invites
	mux.Handle("POST /api/v1/invites", auth(http.HandlerFunc(inviteHandler.Issue)))
	mux.Handle("GET /api/v1/invites", auth(http.HandlerFunc(inviteHandler.List)))
	mux.Handle("DELETE /api/v1/invites/{id}", auth(http.HandlerFunc(inviteHandler.Revoke)))

	// Protected - Attendance
	mux.Handle("POST /api/v1/attendance/clock-in", auth(http.HandlerFunc(attendanceHandler.ClockIn)))
	mux.Handle("POST /api/v1/attendance/break/start", auth(http.HandlerFunc(attendanceHandler.StartBreak)))
	mux.Handle("POST /api/v1/attendance/break/end", auth(http.HandlerFunc(attendanceHandler.EndBreak)))
	mux.Handle("POST /api/v1/attendance/clock-out", auth(http.HandlerFunc(attendanceHandler.ClockOut)))
	mux.Handle("GET /api/v1/attendance/status", auth(http.HandlerFunc(attendanceHandler.Status)))
	mux.Handle("GET /api/v1/attendance/log", auth(http.HandlerFunc(attendanceHandler.Log)))
	mux.Handle("PATCH /api/v1/attendance/log/{id}", auth(http.HandlerFunc(attendanceHandler.UpdateEntry)))
	mux.Handle("DELETE /api/v1/attendance/log/{id}", auth(http.HandlerFunc(attendanceHandler.DeleteEntry)))

	// Protected - Leave
	mux.Handle("POST /api/v1/leave", auth(http.HandlerFunc(leaveHandler.Submit)))
	mux.Handle("GET /api/v1/leave", auth(http.HandlerFunc(leaveHandler.ListMine)))
	mux.Handle("GET /api/v1/leave/pending", auth(http.HandlerFunc(leaveHandler.ListPending)))
	mux.Handle("POST /api/v1/leave/{id}/decision", auth(http.HandlerFunc(leaveHandler.Decide)))

	// WebSocket (token auth via query param)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret, directoryService, messageService, inviteService))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
