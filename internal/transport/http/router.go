package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Foxichek/wiralis/internal/authz"
	"github.com/Foxichek/wiralis/internal/domain"
	"github.com/Foxichek/wiralis/internal/dto"
	"github.com/Foxichek/wiralis/internal/observability/metrics"
	obsmw "github.com/Foxichek/wiralis/internal/observability/middleware"
	"github.com/Foxichek/wiralis/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	BotAPISecret string
	CORSOrigins  []string
}

func NewRouter(svc *service.Service, cfg Config) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(obsmw.WithMetrics)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	bot := authz.NewAPIKeyValidator(cfg.BotAPISecret)

	r.Route("/api", func(r chi.Router) {
		r.With(bot.Middleware).Post("/bot/generate-code", h.generateCode)
		r.Post("/verify-code", h.verifyCode)
		r.Get("/profile/{id}", h.profile)
	})

	return r
}

type handler struct {
	svc *service.Service
}

func (h *handler) generateCode(w http.ResponseWriter, r *http.Request) {
	reqID := chimw.GetReqID(r.Context())
	var req dto.GenerateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.CodesIssuedTotal.WithLabelValues("failure").Inc()
		slog.Warn("generate code decode failed", "error", err, "request_id", reqID)
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	res, err := h.svc.Issue(r.Context(), req)
	if err != nil {
		metrics.CodesIssuedTotal.WithLabelValues("failure").Inc()
		slog.Warn("code issuance failed", "error", err, "telegram_id", req.TelegramID, "request_id", reqID)
		writeServiceError(w, err)
		return
	}
	metrics.CodesIssuedTotal.WithLabelValues("success").Inc()
	slog.Info("code issued", "telegram_id", req.TelegramID, "expires_at", res.ExpiresAt, "request_id", reqID)
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) verifyCode(w http.ResponseWriter, r *http.Request) {
	reqID := chimw.GetReqID(r.Context())
	var req dto.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.CodesRedeemedTotal.WithLabelValues("failure").Inc()
		slog.Warn("verify code decode failed", "error", err, "request_id", reqID)
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	profile, err := h.svc.Redeem(r.Context(), req.Code)
	if err != nil {
		metrics.CodesRedeemedTotal.WithLabelValues(redeemResult(err)).Inc()
		if errors.Is(err, domain.ErrProfileNotFound) {
			// A live code without a profile means something else deleted or
			// never wrote the profile row. Alert-worthy, not user error.
			slog.Error("code redeemed against missing profile", "request_id", reqID)
		} else {
			slog.Warn("code redemption failed", "error", err, "request_id", reqID)
		}
		writeServiceError(w, err)
		return
	}
	metrics.CodesRedeemedTotal.WithLabelValues("success").Inc()
	slog.Info("code redeemed", "profile_id", profile.ID, "request_id", reqID)
	writeJSON(w, http.StatusOK, dto.VerifyCodeResponse{Profile: dto.ProfilePayload{
		ID:          profile.ID.String(),
		TelegramID:  profile.TelegramID,
		DisplayName: profile.DisplayName,
		Username:    profile.Username,
		Quote:       profile.Quote,
		ShortCode:   profile.ShortCode,
		Role:        profile.Role,
	}})
}

func (h *handler) profile(w http.ResponseWriter, r *http.Request) {
	reqID := chimw.GetReqID(r.Context())
	profile, err := h.svc.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		metrics.ProfileLookupsTotal.WithLabelValues("failure").Inc()
		slog.Warn("profile lookup failed", "error", err, "request_id", reqID)
		writeServiceError(w, err)
		return
	}
	metrics.ProfileLookupsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, dto.ProfileResponse{Profile: dto.PublicProfile{
		ID:          profile.ID.String(),
		DisplayName: profile.DisplayName,
		Username:    profile.Username,
		Quote:       profile.Quote,
		ShortCode:   profile.ShortCode,
		Role:        profile.Role,
		CreatedAt:   profile.CreatedAt,
	}})
}

func redeemResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrCodeUsed):
		return "already_used"
	case errors.Is(err, domain.ErrProfileNotFound):
		return "integrity_fault"
	default:
		return "failure"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrCodeNotFound):
		writeError(w, http.StatusNotFound, "code not found")
	case errors.Is(err, domain.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, "code expired, request a new one from the bot")
	case errors.Is(err, domain.ErrCodeUsed):
		writeError(w, http.StatusBadRequest, "this code was already used")
	case errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
