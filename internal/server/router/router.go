package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/server/handlers"
	"github.com/madspace-uw/madspace/internal/server/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New wires handlers and middleware into an HTTP router.
func New(handler *handlers.Handler, mw *middleware.Manager, templates *template.Template) http.Handler {
	router := gin.New()
	router.Use(mw.Logger(), mw.Recovery(), mw.Metrics())
	router.SetHTMLTemplate(templates)
	router.NoRoute(mw.Session(), handler.NotFound)

	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pages := router.Group("/")
	pages.Use(mw.Session())
	{
		pages.GET("/", handler.Home)
		pages.GET("/search", handler.Search)
		pages.GET("/reviews", handler.Reviews)
		pages.GET("/catalog", handler.Catalog)
		pages.GET("/courses/:code", handler.GetCourse)
		pages.POST("/courses/:code/reviews", mw.RequireUser(), handler.SubmitReview)

		pages.GET("/auth", handler.AuthPage)
		pages.POST("/auth/session", mw.RateLimit(), handler.CreateSession)
		pages.POST("/auth/signout", handler.SignOut)

		account := pages.Group("/account")
		account.Use(mw.RequireUser())
		{
			account.GET("", handler.Account)
			account.POST("/history", handler.UploadHistory)
			account.POST("/history/clear", handler.ClearHistory)
		}
	}

	v1 := router.Group("/api/v1")
	v1.Use(mw.RateLimit())
	{
		courses := v1.Group("/courses")
		{
			courses.GET("", handler.ListCourses)
			courses.GET("/:code", handler.GetCourseJSON)
		}

		v1.GET("/departments", handler.ListDepartments)
	}

	return router
}
