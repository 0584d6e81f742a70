package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/history"
	"github.com/madspace-uw/madspace/internal/listing"
	"github.com/madspace-uw/madspace/internal/server/middleware"
	"github.com/madspace-uw/madspace/internal/types"
	"github.com/madspace-uw/madspace/internal/view"
	"go.uber.org/zap"
)

// Catalog serves courses and stats, implemented by *courses.Service.
type Catalog interface {
	ListCourses(ctx context.Context, q listing.Query) (listing.Result, error)
	GetCourse(ctx context.Context, code string) (*types.Course, error)
	Departments(ctx context.Context) []types.Department
	SiteStats(ctx context.Context) types.SiteStats
	Invalidate()
}

// Reviews reads and writes reviews, implemented by *firebase.Firestore.
type Reviews interface {
	SubmitReview(ctx context.Context, review types.Review) (types.Review, error)
	CourseReviews(ctx context.Context, courseID string, limit int) ([]types.Review, error)
	UserReviews(ctx context.Context, userID string, limit int) ([]types.Review, error)
}

// History stores imported course history, implemented by *history.Store.
type History interface {
	Replace(ctx context.Context, userID, filename string, courses []types.TakenCourse) error
	List(ctx context.Context, userID string) ([]types.TakenCourse, error)
	LastUpload(ctx context.Context, userID string) (*history.Upload, error)
	Clear(ctx context.Context, userID string) error
	Codes(ctx context.Context, userID string) (map[string]bool, error)
}

// Sessions mints and revokes session cookies, implemented by *firebase.Auth.
type Sessions interface {
	CreateSession(ctx context.Context, idToken string, ttl time.Duration) (string, error)
	RevokeSessions(ctx context.Context, uid string) error
}

// FirebaseWeb is the public client config handed to the sign-in page.
type FirebaseWeb struct {
	APIKey     string
	AuthDomain string
	ProjectID  string
}

// Options holds the settings handlers need from the server config.
type Options struct {
	SessionCookie string
	SessionTTL    time.Duration
	SecureCookies bool
	Firebase      FirebaseWeb
}

type Handler struct {
	catalog  Catalog
	reviews  Reviews
	history  History
	sessions Sessions
	mw       *middleware.Manager
	log      *zap.Logger
	opts     Options
	now      func() time.Time
}

const (
	flashCookie    = "madspace_flash"
	reviewsLimit   = 50
	historyPreview = 10
)

func New(catalog Catalog, reviews Reviews, history History, sessions Sessions, mw *middleware.Manager, log *zap.Logger, opts Options) *Handler {
	return &Handler{
		catalog:  catalog,
		reviews:  reviews,
		history:  history,
		sessions: sessions,
		mw:       mw,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

// Health responds with a simple service heartbeat.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "MADSPACE is running",
	})
}

// NotFound renders the error page for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.renderError(c, http.StatusNotFound, "We couldn't find that page.")
}

// flash is a one-shot message shown on the next page render.
type flash struct {
	Message string
	Error   bool
}

func (h *Handler) setFlash(c *gin.Context, message string, isError bool) {
	value := "ok:" + message
	if isError {
		value = "err:" + message
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, value, 60, "/", "", h.opts.SecureCookies, true)
}

func (h *Handler) popFlash(c *gin.Context) *flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", h.opts.SecureCookies, true)

	if msg, ok := strings.CutPrefix(value, "err:"); ok {
		return &flash{Message: msg, Error: true}
	}
	if msg, ok := strings.CutPrefix(value, "ok:"); ok {
		return &flash{Message: msg}
	}
	return nil
}

func (h *Handler) render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Nav"] = view.NewNavbar(c.Request.URL.Path, middleware.CurrentUser(c))
	if f := h.popFlash(c); f != nil {
		data["Flash"] = f
	}
	c.HTML(status, name, data)
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, "error", http.StatusText(status), gin.H{
		"Status":  status,
		"Message": message,
	})
}

// takenCodes returns the signed-in user's history codes, or nil.
func (h *Handler) takenCodes(c *gin.Context) map[string]bool {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil
	}

	codes, err := h.history.Codes(c.Request.Context(), user.UID)
	if err != nil {
		h.log.Warn("failed to load course history", zap.String("uid", user.UID), zap.Error(err))
		return nil
	}
	return codes
}

func buildPaginationMeta(result listing.Result) gin.H {
	meta := gin.H{
		"page":        result.Page,
		"limit":       listing.PageSize,
		"has_next":    result.HasNext(),
		"total_pages": result.TotalPages,
	}

	if result.HasNext() {
		meta["next_page"] = result.Page + 1
	} else {
		meta["total"] = result.Total
	}

	return meta
}
