package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tivuchprep-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCitationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	// no generator wired: the service answers from the keyword classifier
	h := NewCitationHandler(service.NewCitationService())
	r := gin.New()
	r.POST("/api/citations/resolve", h.ResolveCitation)
	return r
}

func TestResolveCitationEndpoint(t *testing.T) {
	r := newCitationRouter()

	body := `{"question_text": "מהי תקופת הבלעדיות המרבית למכירת דירה?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/citations/resolve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Citation string `json:"citation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Data.Citation, "המתווכים")
	assert.Contains(t, resp.Data.Citation, "עמ׳ 14")
}

func TestResolveCitationEndpointUnanswerable(t *testing.T) {
	r := newCitationRouter()

	body := `{"question_text": "מה בירת צרפת?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/citations/resolve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Citation string `json:"citation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Citation, "the endpoint must always return a citation")
}

func TestResolveCitationEndpointRejectsMissingQuestion(t *testing.T) {
	r := newCitationRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/citations/resolve", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}
