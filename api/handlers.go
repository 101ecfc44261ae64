package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"economy/models"

	"github.com/go-chi/chi/v5"
)

// Ledger is the part of the application facade exposed over HTTP
type Ledger interface {
	GetAccount(ctx context.Context, guildID, userID int64) (*models.Account, error)
	Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.LeaderboardEntry, error)
	History(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceHistory, error)
	BrowseMarket(ctx context.Context, guildID int64, limit int) ([]*models.MarketplaceListing, error)
	AdminCredit(ctx context.Context, guildID, userID, amount int64, reason string) (*models.Account, error)
}

// Pinger reports storage health. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	ledger Ledger
	db     Pinger
	now    func() time.Time
}

type accountResponse struct {
	GuildID   int64                `json:"guild_id,string"`
	UserID    int64                `json:"user_id,string"`
	Balance   int64                `json:"balance"`
	Cooldowns map[string]time.Time `json:"last_used,omitempty"`
}

func newAccountResponse(account *models.Account) accountResponse {
	resp := accountResponse{
		GuildID: account.GuildID,
		UserID:  account.UserID,
		Balance: account.Balance,
	}
	for _, action := range models.AllCooldownActions {
		if at := account.LastUsed(action); at != nil {
			if resp.Cooldowns == nil {
				resp.Cooldowns = make(map[string]time.Time)
			}
			resp.Cooldowns[string(action)] = *at
		}
	}
	return resp
}

type creditRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{
		"status":    "healthy",
		"timestamp": h.now().UTC(),
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unreachable"
		}
	}
	writeJSON(w, status, body)
}

func (h *handlers) getAccount(w http.ResponseWriter, r *http.Request) {
	guildID, userID, err := accountPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	account, err := h.ledger.GetAccount(r.Context(), guildID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

func (h *handlers) leaderboard(w http.ResponseWriter, r *http.Request) {
	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.ledger.Leaderboard(r.Context(), guildID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *handlers) history(w http.ResponseWriter, r *http.Request) {
	guildID, userID, err := accountPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entries, err := h.ledger.History(r.Context(), guildID, userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *handlers) market(w http.ResponseWriter, r *http.Request) {
	guildID, err := pathID(r, "guildID")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	listings, err := h.ledger.BrowseMarket(r.Context(), guildID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *handlers) credit(w http.ResponseWriter, r *http.Request) {
	guildID, userID, err := accountPath(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req creditRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, badRequest("invalid JSON body"))
		return
	}
	if req.Reason == "" {
		req.Reason = "api"
	}

	account, err := h.ledger.AdminCredit(r.Context(), guildID, userID, req.Amount, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

// Discord snowflakes do not fit JSON numbers, so ids travel as decimal strings
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(name + " must be a positive integer")
	}
	return id, nil
}

func accountPath(r *http.Request) (int64, int64, error) {
	guildID, err := pathID(r, "guildID")
	if err != nil {
		return 0, 0, err
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		return 0, 0, err
	}
	return guildID, userID, nil
}

// queryLimit returns 0 when absent so the service default applies
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, badRequest("limit must be a non-negative integer")
	}
	return limit, nil
}
