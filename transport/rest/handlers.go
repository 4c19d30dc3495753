package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/render"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type decideRequest struct {
	Board entity.Board `json:"board"`
}

type decideResponse struct {
	Action entity.Action `json:"action"`
	Value  int           `json:"value"`
}

type createGameRequest struct {
	Mark entity.Mark `json:"mark"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var payload decideRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	if !payload.Board.IsBalanced() {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "board is not reachable by alternating play"})
		return
	}

	action, value, err := that.engine.Evaluate(payload.Board)
	if err != nil {
		that.writeError(w, "failed to evaluate board", err)
		return
	}

	that.writeJSON(w, http.StatusOK, decideResponse{Action: action, Value: value})
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var payload createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	game, err := that.games.CreateGame(r.Context(), payload.Mark)
	if err != nil {
		that.writeError(w, "failed to create game", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "failed to get game", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "failed to delete game", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleRenderBoard(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "failed to get game", err)
		return
	}

	profile := termenv.Ascii
	if color, _ := strconv.ParseBool(r.URL.Query().Get("color")); color {
		profile = termenv.ANSI256
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write([]byte(render.Board(game.Board, profile) + "\n")); err != nil {
		that.logger.Error("failed to write board", "error", err)
	}
}

func (that *Server) handleMakeTurn(w http.ResponseWriter, r *http.Request) {
	var action entity.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	game, err := that.games.MakeTurn(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		that.writeError(w, "failed to make turn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleSelfPlay(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.SelfPlay(r.Context())
	if err != nil {
		that.writeError(w, "failed to run self-play", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *Server) writeError(w http.ResponseWriter, msg string, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error(msg, "error", err)
		that.writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidAction),
		errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, usecase.ErrInvalidMark):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrTerminalBoard),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
