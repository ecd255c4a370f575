package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestConfigTrimsOrigins(t *testing.T) {
	cfg := Config([]string{"https://dorm.example/", " "})
	assert.Equal(t, []string{"https://dorm.example"}, cfg.AllowOrigins)
	assert.Nil(t, cfg.AllowOriginFunc)
}

func TestNewAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New([]string{"https://dorm.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://dorm.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://dorm.example", w.Header().Get("Access-Control-Allow-Origin"))
}
