package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetupSwagger_ServesDoc(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupSwagger(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var doc struct {
		BasePath string                     `json:"basePath"`
		Info     struct{ Title string }     `json:"info"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if doc.BasePath != "/api/v1" || doc.Info.Title != "Personnel API" {
		t.Fatalf("unexpected doc header: %+v", doc)
	}
	for _, path := range []string{"/employees", "/employees/{id}", "/health"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("path %s not documented", path)
		}
	}
}

func TestSetupSwagger_ServesUI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupSwagger(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
