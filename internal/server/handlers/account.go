package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/history"
	"github.com/madspace-uw/madspace/internal/metrics"
	"github.com/madspace-uw/madspace/internal/server/middleware"
	"go.uber.org/zap"
)

// Account renders the profile, course history and review activity of the
// signed-in user.
func (h *Handler) Account(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	taken, err := h.history.List(ctx, user.UID)
	if err != nil {
		h.log.Error("failed to load course history", zap.String("uid", user.UID), zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Your account is unavailable right now.")
		return
	}

	upload, err := h.history.LastUpload(ctx, user.UID)
	if err != nil {
		h.log.Warn("failed to load last upload", zap.String("uid", user.UID), zap.Error(err))
	}

	reviews, err := h.reviews.UserReviews(ctx, user.UID, reviewsLimit)
	if err != nil {
		h.log.Warn("failed to load user reviews", zap.String("uid", user.UID), zap.Error(err))
		reviews = nil
	}

	preview := taken
	more := 0
	if len(taken) > historyPreview {
		preview = taken[:historyPreview]
		more = len(taken) - historyPreview
	}

	h.render(c, http.StatusOK, "account", "Account", gin.H{
		"User":           user,
		"Taken":          preview,
		"TakenCount":     len(taken),
		"MoreCount":      more,
		"Upload":         upload,
		"ExpectedHeader": history.ExpectedHeader,
		"Reviews":        reviews,
	})
}

// UploadHistory replaces the user's course history with an uploaded CSV.
func (h *Handler) UploadHistory(c *gin.Context) {
	user := middleware.CurrentUser(c)

	count, filename, err := h.importHistory(c, user.UID)
	if err != nil {
		var userErr uploadError
		if errors.As(err, &userErr) {
			metrics.HistoryImports.WithLabelValues("rejected").Inc()
			h.setFlash(c, userErr.Error(), true)
		} else {
			metrics.HistoryImports.WithLabelValues("failed").Inc()
			h.log.Error("failed to import course history", zap.String("uid", user.UID), zap.Error(err))
			h.setFlash(c, "Your file could not be imported. Please try again.", true)
		}
		c.Redirect(http.StatusSeeOther, "/account")
		return
	}

	metrics.HistoryImports.WithLabelValues("ok").Inc()
	h.setFlash(c, fmt.Sprintf("Imported %d courses from %s.", count, filename), false)
	c.Redirect(http.StatusSeeOther, "/account")
}

// uploadError is a problem with the file itself, shown to the user as is.
type uploadError string

func (e uploadError) Error() string { return string(e) }

func (h *Handler) importHistory(c *gin.Context, uid string) (int, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return 0, "", uploadError("Please choose a CSV file to upload.")
	}

	if header.Size > history.MaxUploadBytes {
		return 0, "", uploadError("That file is too large. History files must be under 1 MB.")
	}

	if err := history.CheckUpload(header.Filename, header.Header.Get("Content-Type")); err != nil {
		return 0, "", uploadError("Please upload a CSV file.")
	}

	file, err := header.Open()
	if err != nil {
		return 0, "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	courses, err := history.ParseCSV(io.LimitReader(file, history.MaxUploadBytes))
	if err != nil {
		return 0, "", uploadError("That file doesn't look like a valid CSV.")
	}

	// an empty import would wipe the stored list; Clear All exists for that
	if len(courses) == 0 {
		return 0, "", uploadError("No courses found in that file. Expected columns: " + history.ExpectedHeader + ".")
	}

	if err := h.history.Replace(c.Request.Context(), uid, header.Filename, courses); err != nil {
		return 0, "", err
	}

	return len(courses), header.Filename, nil
}

// ClearHistory removes everything imported for the user.
func (h *Handler) ClearHistory(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.history.Clear(c.Request.Context(), user.UID); err != nil {
		h.log.Error("failed to clear course history", zap.String("uid", user.UID), zap.Error(err))
		h.setFlash(c, "Your course history could not be cleared.", true)
		c.Redirect(http.StatusSeeOther, "/account")
		return
	}

	h.setFlash(c, "Course history cleared.", false)
	c.Redirect(http.StatusSeeOther, "/account")
}
