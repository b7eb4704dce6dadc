package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"supplier_frontend/internal/http-server/handlers/api/briefs"
	"supplier_frontend/internal/http-server/handlers/api/ping"
	"supplier_frontend/internal/lib/email"
	"supplier_frontend/internal/notify"
	"supplier_frontend/internal/storage/dmapi"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := godotenv.Load()
	if err != nil {
		log.Error("Failed to load .env", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
	}

	storage := dmapi.New(os.Getenv("DM_DATA_API_URL"), os.Getenv("DM_DATA_API_AUTH_TOKEN"))

	dispatcher, err := notify.NewSESDispatcher(context.Background(), os.Getenv("AWS_REGION"))
	if err != nil {
		log.Error("Failed to configure email dispatcher", slog.Attr{Key: "error", Value: slog.StringValue(err.Error())})
		os.Exit(1)
	}

	emailCfg := notify.Config{
		FromAddress: os.Getenv("CLARIFICATION_EMAIL_FROM"),
		FromName:    os.Getenv("CLARIFICATION_EMAIL_NAME"),
	}

	generic := email.NewGenericDomains(email.DefaultGenericDomains)
	if raw := os.Getenv("GENERIC_EMAIL_DOMAINS"); raw != "" {
		generic = email.NewGenericDomains(strings.Split(raw, ","))
	}

	router := chi.NewRouter()

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.New(log))
		r.Route("/briefs/{briefId}", func(r chi.Router) {
			r.Get("/question-and-answer-session", briefs.NewGetQuestionAndAnswerSession(log, storage, generic))
			r.Post("/clarification-questions", briefs.NewPostClarificationQuestion(log, storage, storage, dispatcher, emailCfg, generic))
			r.Route("/responses", func(r chi.Router) {
				r.Get("/create", briefs.NewGetBriefResponse(log, storage, generic))
				r.Post("/create", briefs.NewCreateBriefResponse(log, storage, dispatcher, emailCfg, generic))
				r.Get("/result", briefs.NewGetResponseResult(log, storage))
			})
		})
	})

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Error("failed to start the server")
		}
	}()

	log.Info("starting server", slog.String("addr", addr))
	<-done
	log.Info("server stopped")
}
