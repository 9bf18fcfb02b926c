package http

import (
	"net/http"
	"time"

	httpmw "github.com/school-erp/chat-service/internal/transport/http/middleware"
	"github.com/school-erp/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, memberSvc httpmw.HeartbeatToucher, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// WS endpoint
	r.Get("/ws/rooms/{id}", wsServer.HandleWS)

	// Все маршруты требуют access_token и user_id
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/chat", func(ch chi.Router) {
			ch.Get("/rooms", h.ListRooms)
			ch.Get("/users", h.ListUsers)
			ch.Post("/private/{userID}", h.StartPrivateChat)
			ch.Post("/groups/{groupID}", h.OpenGroupChat)

			ch.Route("/rooms/{id}", func(rr chi.Router) {
				// {id} уже в route context — touch работает на всех room-scoped запросах
				rr.Use(httpmw.HeartbeatMiddleware(memberSvc))
				rr.Get("/", h.OpenRoom)
				rr.Post("/messages", h.SendMessage)
				rr.Get("/messages", h.PollMessages)
				rr.Get("/participants", h.GetParticipants)
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
