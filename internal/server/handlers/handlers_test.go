package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/madspace-uw/madspace/internal/listing"
	"github.com/madspace-uw/madspace/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaginationMeta(t *testing.T) {
	meta := buildPaginationMeta(listing.Result{Page: 1, Total: 30, TotalPages: 3})
	assert.Equal(t, true, meta["has_next"])
	assert.Equal(t, 2, meta["next_page"])
	assert.NotContains(t, meta, "total")
	assert.Equal(t, 3, meta["total_pages"])

	meta = buildPaginationMeta(listing.Result{Page: 3, Total: 30, TotalPages: 3})
	assert.Equal(t, false, meta["has_next"])
	assert.Equal(t, 30, meta["total"])
	assert.NotContains(t, meta, "next_page")
}

func TestFlashRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h.setFlash(c, "Course history cleared.", false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/account", nil)
	c.Request.AddCookie(cookies[0])

	f := h.popFlash(c)
	require.NotNil(t, f)
	assert.Equal(t, "Course history cleared.", f.Message)
	assert.False(t, f.Error)
	assert.Contains(t, w.Header().Get("Set-Cookie"), flashCookie+"=;")
}

func TestPopFlashIgnoresGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: flashCookie, Value: "whatever"})

	assert.Nil(t, h.popFlash(c))
}

func TestAuthorName(t *testing.T) {
	assert.Equal(t, "Bucky Badger", authorName(&types.User{Name: " Bucky Badger "}))
	assert.Equal(t, "Anonymous Badger", authorName(&types.User{}))
}
