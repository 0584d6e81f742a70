package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/listing"
	"github.com/madspace-uw/madspace/internal/server/middleware"
	"github.com/madspace-uw/madspace/internal/view"
	"go.uber.org/zap"
)

// Home renders the landing page.
func (h *Handler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home", "Home", gin.H{
		"Stats":      view.FeaturedStats(h.catalog.SiteStats(c.Request.Context())),
		"QuickLinks": view.QuickLinks,
		"Today":      view.NewToday(h.now()),
	})
}

// Search forwards the navbar search box to the listing. A blank query goes
// back where it came from.
func (h *Handler) Search(c *gin.Context) {
	href := view.SearchHref(c.Query("q"))
	if href == "" {
		c.Redirect(http.StatusSeeOther, refererPath(c.Request))
		return
	}
	c.Redirect(http.StatusSeeOther, href)
}

// refererPath reduces the Referer header to a local path. Referers from other
// hosts send the user home.
func refererPath(r *http.Request) string {
	u, err := url.Parse(r.Referer())
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	return middleware.SafeNext(u.RequestURI())
}

// Reviews renders the filterable course listing.
func (h *Handler) Reviews(c *gin.Context) {
	q := listing.Parse(c.Request.URL.Query())
	h.renderListing(c, q, "/reviews", "Course Reviews")
}

// Catalog renders the same listing ordered by course code unless the
// visitor picked another sort.
func (h *Handler) Catalog(c *gin.Context) {
	q := listing.Parse(c.Request.URL.Query())
	if c.Query(listing.ParamSort) == "" {
		q.Sort = listing.SortCode
	}
	h.renderListing(c, q, "/catalog", "Course Catalog")
}

func (h *Handler) renderListing(c *gin.Context, q listing.Query, base, heading string) {
	ctx := c.Request.Context()

	result, err := h.catalog.ListCourses(ctx, q)
	if err != nil {
		h.log.Error("failed to list courses", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Courses are unavailable right now. Please try again shortly.")
		return
	}

	h.render(c, http.StatusOK, "reviews", heading, gin.H{
		"Heading":     heading,
		"Base":        base,
		"Query":       q,
		"Departments": h.catalog.Departments(ctx),
		"Levels":      listing.Levels,
		"SortOptions": listing.SortOptions,
		"Filters":     q.ActiveFilters(),
		"Result":      result,
		"Cards":       view.CourseCards(result.Courses, h.takenCodes(c)),
		"Pagination":  listing.Paginate(q, result.TotalPages, base),
	})
}
