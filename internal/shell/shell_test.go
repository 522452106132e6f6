package shell

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apphttp "storytrain_landing/internal/http"
	"storytrain_landing/platform/logger"

	"github.com/gin-gonic/gin"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	NewModule(logger.Discard()).RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})
	return engine
}

func TestLandingPageRendersSectionsAndForm(t *testing.T) {
	var buf bytes.Buffer
	if err := LandingPage().Render(&buf); err != nil {
		t.Fatalf("unexpected render error %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`id="intro"`,
		`id="journey"`,
		`id="cta"`,
		`id="form-leads"`,
		`data-target="journey"`,
		`data-target="cta"`,
		`src="/static/landing.js"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected page to contain %s", want)
		}
	}
	if strings.Count(html, "required") != 2 {
		t.Fatalf("expected name and email required only, got %d", strings.Count(html, "required"))
	}
}

func TestHandleLandingPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<!DOCTYPE html>") {
		t.Fatal("expected a full document")
	}
}

func TestStaticScriptServed(t *testing.T) {
	rec := httptest.NewRecorder()
	newEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/landing.js", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/v1/sessions") {
		t.Fatal("expected the shell script")
	}
}

func TestStaticScriptReleasesFormWithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	newEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/landing.js", nil))

	script := rec.Body.String()
	for _, want := range []string{".catch(sessionUnavailable)", "if (p.fail) p.fail();", "release();"} {
		if !strings.Contains(script, want) {
			t.Fatalf("expected script to contain %q", want)
		}
	}
}

func TestStaticScriptSamplesScroll(t *testing.T) {
	rec := httptest.NewRecorder()
	newEngine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/landing.js", nil))

	script := rec.Body.String()
	if strings.Contains(script, "requestAnimationFrame") {
		t.Fatal("expected scroll reports to be sampled, not sent every frame")
	}
	if !strings.Contains(script, "scrollDone = true") {
		t.Fatal("expected scroll reports to stop after the deepest threshold")
	}
}
