package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"waitlist_ledger/internal/middleware"
	"waitlist_ledger/internal/model"
	"waitlist_ledger/internal/service"
	"waitlist_ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type waitlistRoutes struct {
	ws        service.WaitlistServiceI
	a         *middleware.Authorization
	publicURL string
}

func NewWaitlistRoutes(handler *gin.RouterGroup, ws service.WaitlistServiceI, a *middleware.Authorization, publicURL string) {
	r := &waitlistRoutes{
		ws:        ws,
		a:         a,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}

	h := handler.Group("/waitlist")
	{
		h.POST("", r.Join)
		h.GET("", r.Query)
	}

	admin := h.Group("/entries")
	admin.Use(a.AdminOnly())
	{
		admin.GET("", r.ListEntries)
	}
}

type JoinRequest struct {
	Email          string `json:"email"`
	WalletAddress  string `json:"walletAddress"`
	TwitterHandle  string `json:"twitterHandle"`
	ReferredByCode string `json:"referredByCode"`

	// Field names used by the first version of the signup form.
	TwitterUsername string `json:"twitterUsername"`
	ReferralCode    string `json:"referralCode"`
}

type JoinData struct {
	Email        string `json:"email"`
	ReferralCode string `json:"referralCode"`
	Points       int    `json:"points"`
	PointsEarned int    `json:"pointsEarned"`
}

type JoinResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Position     int      `json:"position"`
	ReferralCode string   `json:"referralCode"`
	ReferralLink string   `json:"referralLink"`
	Data         JoinData `json:"data"`
}

func (r *waitlistRoutes) Join(c *gin.Context) {
	log := logger.Logger()

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	signup := &model.Signup{
		Email:          req.Email,
		WalletAddress:  req.WalletAddress,
		TwitterHandle:  firstNonEmpty(req.TwitterHandle, req.TwitterUsername),
		ReferredByCode: firstNonEmpty(req.ReferredByCode, req.ReferralCode),
		UserAgent:      c.GetHeader("User-Agent"),
		IP:             clientIP(c),
		Source:         firstNonEmpty(c.GetHeader("Referer"), "direct"),
	}

	result, err := r.ws.Join(c.Request.Context(), signup)
	if err != nil {
		var (
			validationErr *service.ValidationError
			conflictErr   *service.ConflictError
		)
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
		case errors.As(err, &conflictErr):
			body := gin.H{"error": conflictErr.Message, "field": conflictErr.Field}
			if conflictErr.ReferralCode != "" {
				body["referralCode"] = conflictErr.ReferralCode
			}
			c.JSON(http.StatusConflict, body)
		case errors.Is(err, service.ErrCodeSpaceExhausted):
			log.Error("referral code space exhausted", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Waitlist is temporarily unavailable. Please try again."})
		default:
			log.Error("failed to join waitlist", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to waitlist. Please try again."})
		}
		return
	}

	c.JSON(http.StatusOK, JoinResponse{
		Success:      true,
		Message:      "Successfully added to waitlist",
		Position:     result.Position,
		ReferralCode: result.ReferralCode,
		ReferralLink: r.referralLink(c, result.ReferralCode),
		Data: JoinData{
			Email:        result.Email,
			ReferralCode: result.ReferralCode,
			Points:       result.Points,
			PointsEarned: result.PointsEarned,
		},
	})
}

// Query dispatches on the action parameter. Requests without a public action
// fall through to the admin listing.
func (r *waitlistRoutes) Query(c *gin.Context) {
	switch c.Query("action") {
	case "leaderboard":
		r.Leaderboard(c)
	case "stats":
		r.Stats(c)
	case "search":
		r.Search(c)
	default:
		if !r.a.IsAdmin(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		r.ListEntries(c)
	}
}

type LeaderboardEntryResponse struct {
	Rank           int     `json:"rank"`
	ReferralCode   string  `json:"referralCode"`
	TwitterHandle  *string `json:"twitterHandle"`
	Points         int     `json:"points"`
	TotalReferrals int     `json:"totalReferrals"`
}

func (r *waitlistRoutes) Leaderboard(c *gin.Context) {
	log := logger.Logger()

	entries, err := r.ws.GetLeaderboard(c.Request.Context())
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	out := make([]LeaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = LeaderboardEntryResponse{
			Rank:           entry.Rank,
			ReferralCode:   entry.ReferralCode,
			TwitterHandle:  entry.TwitterHandle,
			Points:         entry.Points,
			TotalReferrals: entry.TotalReferrals,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"leaderboard": out,
	})
}

type StatsResponse struct {
	Points         int  `json:"points"`
	TotalReferrals int  `json:"totalReferrals"`
	Rank           *int `json:"rank"`
}

func (r *waitlistRoutes) Stats(c *gin.Context) {
	log := logger.Logger()

	stats, err := r.ws.GetStatsByCode(c.Request.Context(), c.Query("code"))
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		case errors.Is(err, service.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid referral code"})
		default:
			log.Error("failed to get stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": StatsResponse{
			Points:         stats.Points,
			TotalReferrals: stats.TotalReferrals,
			Rank:           stats.Rank,
		},
	})
}

type SearchResponse struct {
	Email          string    `json:"email"`
	Points         int       `json:"points"`
	TotalReferrals int       `json:"totalReferrals"`
	ReferralCode   string    `json:"referralCode"`
	Rank           *int      `json:"rank"`
	Position       int       `json:"position"`
	JoinedDate     time.Time `json:"joinedDate"`
}

func (r *waitlistRoutes) Search(c *gin.Context) {
	log := logger.Logger()

	summary, err := r.ws.SearchByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		case errors.Is(err, service.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Email not found in waitlist"})
		default:
			log.Error("failed to search waitlist", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search waitlist"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": SearchResponse{
			Email:          summary.Email,
			Points:         summary.Points,
			TotalReferrals: summary.TotalReferrals,
			ReferralCode:   summary.ReferralCode,
			Rank:           summary.Rank,
			Position:       summary.Position,
			JoinedDate:     summary.JoinedDate,
		},
	})
}

type EntryResponse struct {
	ID             string              `json:"id"`
	Email          string              `json:"email"`
	WalletAddress  *string             `json:"walletAddress"`
	TwitterHandle  *string             `json:"twitterHandle"`
	ReferralCode   string              `json:"referralCode"`
	ReferredBy     *string             `json:"referredBy"`
	Points         int                 `json:"points"`
	TotalReferrals int                 `json:"totalReferrals"`
	Metadata       model.EntryMetadata `json:"metadata"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (r *waitlistRoutes) ListEntries(c *gin.Context) {
	log := logger.Logger()

	entries, total, err := r.ws.ListEntries(c.Request.Context())
	if err != nil {
		log.Error("failed to list waitlist entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch waitlist"})
		return
	}

	out := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = EntryResponse{
			ID:             entry.ID.String(),
			Email:          entry.Email,
			WalletAddress:  entry.WalletAddress,
			TwitterHandle:  entry.TwitterHandle,
			ReferralCode:   entry.ReferralCode,
			ReferredBy:     entry.ReferredBy,
			Points:         entry.Points,
			TotalReferrals: entry.TotalReferrals,
			Metadata:       entry.Metadata,
			CreatedAt:      entry.CreatedAt,
			UpdatedAt:      entry.UpdatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"entries": out,
	})
}

func (r *waitlistRoutes) referralLink(c *gin.Context, code string) string {
	base := r.publicURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/waitlist?ref=" + code
}

// clientIP prefers the proxy headers the deployment sets over gin's resolution.
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}
	return c.ClientIP()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
