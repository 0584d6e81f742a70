package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/firebase"
	"github.com/madspace-uw/madspace/internal/metrics"
	"github.com/madspace-uw/madspace/internal/rating"
	"github.com/madspace-uw/madspace/internal/server/middleware"
	"github.com/madspace-uw/madspace/internal/types"
	"github.com/madspace-uw/madspace/internal/view"
	"go.uber.org/zap"
)

type dimension struct {
	Name  string
	Label string
}

var dimensions = []dimension{
	{"content", "Content"},
	{"teaching", "Teaching"},
	{"grading", "Grading"},
	{"workload", "Workload"},
}

// GetCourse renders a course with its reviews, newest first.
func (h *Handler) GetCourse(c *gin.Context) {
	ctx := c.Request.Context()

	course, err := h.catalog.GetCourse(ctx, c.Param("code"))
	if err != nil {
		if errors.Is(err, firebase.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, "We couldn't find that course.")
			return
		}
		h.log.Error("failed to load course", zap.String("code", c.Param("code")), zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "This course is unavailable right now.")
		return
	}

	reviews, err := h.reviews.CourseReviews(ctx, course.ID, reviewsLimit)
	if err != nil {
		h.log.Warn("failed to load course reviews", zap.String("course", course.ID), zap.Error(err))
		reviews = nil
	}

	data := gin.H{
		"Card":       view.NewCourseCard(*course, h.takenCodes(c)),
		"Reviews":    reviews,
		"Dimensions": dimensions,
		"MaxComment": types.MaxCommentLength,
	}
	if avg := course.AverageRatings(); avg != nil {
		data["Summary"] = view.RatingBadges(*avg, rating.Medium)
	}

	h.render(c, http.StatusOK, "course", course.Code, data)
}

// SubmitReview stores a review for the course from the posted form.
func (h *Handler) SubmitReview(c *gin.Context) {
	user := middleware.CurrentUser(c)
	code := c.Param("code")
	back := view.CourseHref(code)

	review := types.Review{
		CourseCode: code,
		UserID:     user.UID,
		AuthorName: authorName(user),
		Semester:   c.PostForm("semester"),
		Comment:    c.PostForm("comment"),
		Content:    formRating(c, "content"),
		Teaching:   formRating(c, "teaching"),
		Grading:    formRating(c, "grading"),
		Workload:   formRating(c, "workload"),
	}

	saved, err := h.reviews.SubmitReview(c.Request.Context(), review)
	switch {
	case errors.Is(err, types.ErrInvalidReview):
		h.setFlash(c, err.Error(), true)
		c.Redirect(http.StatusSeeOther, back)
		return
	case errors.Is(err, firebase.ErrNotFound):
		h.renderError(c, http.StatusNotFound, "We couldn't find that course.")
		return
	case err != nil:
		h.log.Error("failed to submit review", zap.String("code", code), zap.Error(err))
		h.setFlash(c, "Your review could not be saved. Please try again.", true)
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	metrics.ReviewsSubmitted.Inc()
	h.catalog.Invalidate()
	h.log.Info("review submitted", zap.String("course", saved.CourseID), zap.String("review", saved.ID))

	h.setFlash(c, "Thanks! Your review was posted.", false)
	c.Redirect(http.StatusSeeOther, view.CourseHref(saved.CourseCode))
}

// formRating returns 0 for anything that is not an integer, which Validate
// then rejects.
func formRating(c *gin.Context, field string) int {
	value, err := strconv.Atoi(strings.TrimSpace(c.PostForm(field)))
	if err != nil {
		return 0
	}
	return value
}

func authorName(user *types.User) string {
	if name := strings.TrimSpace(user.Name); name != "" {
		return name
	}
	return "Anonymous Badger"
}
