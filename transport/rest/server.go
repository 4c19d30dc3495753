package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	CreateGame(ctx context.Context, humanMark entity.Mark) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, action entity.Action) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
	SelfPlay(ctx context.Context) (*entity.Game, error)
}

type evaluator interface {
	Evaluate(board entity.Board) (entity.Action, int, error)
}

type Server struct {
	logger *slog.Logger

	games  gameManager
	engine evaluator
}

func New(logger *slog.Logger, games gameManager, engine evaluator) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		games:  games,
		engine: engine,
	}
}

func (that *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/ping", that.handlePing)
	r.Post("/decide", that.handleDecide)

	r.Route("/games", func(r chi.Router) {
		r.Post("/", that.handleCreateGame)
		r.Post("/self-play", that.handleSelfPlay)
		r.Get("/{id}", that.handleGetGame)
		r.Delete("/{id}", that.handleDeleteGame)
		r.Get("/{id}/board", that.handleRenderBoard)
		r.Post("/{id}/turn", that.handleMakeTurn)
	})

	return r
}

// Start serves until ctx is cancelled, then shuts the server down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	}
}
