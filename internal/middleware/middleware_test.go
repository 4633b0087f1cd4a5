package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-booking-frontend/internal/config"
	"github.com/iliyamo/bus-booking-frontend/internal/session"
	"github.com/iliyamo/bus-booking-frontend/internal/web"
)

func ok(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func runWithVisitor(t *testing.T, v *web.Visitor, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/my-bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if v != nil {
		c.Set(visitorKey, v)
	}
	if err := mw(ok)(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRequireSessionWhileLoading(t *testing.T) {
	v := &web.Visitor{Session: session.NewStore(&session.MemoryStorage{}, nil)}
	rec := runWithVisitor(t, v, RequireSession())
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"loading"`) {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestRequireSessionAnonymous(t *testing.T) {
	store := session.NewStore(&session.MemoryStorage{}, nil)
	if err := store.Hydrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	rec := runWithVisitor(t, &web.Visitor{Session: store}, RequireSession())
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginURL {
		t.Fatalf("status = %d location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireSessionAuthenticated(t *testing.T) {
	store := session.NewStore(&session.MemoryStorage{}, nil)
	if err := store.Login(context.Background(), "opaque-token"); err != nil {
		t.Fatal(err)
	}
	rec := runWithVisitor(t, &web.Visitor{Session: store}, RequireSession())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVisitorsIssuesCookie(t *testing.T) {
	reg := web.NewRegistry(web.Settings{APIBaseURL: "http://api.invalid"}, nil, nil, nil)
	e := echo.New()
	var seen *web.Visitor
	h := Visitors(reg, "sid", false)(func(c echo.Context) error {
		seen = VisitorFrom(c)
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)); err != nil {
		t.Fatal(err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "sid" || !cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", cookies)
	}
	first := seen

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if seen != first {
		t.Fatal("cookie did not select the same visitor")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("cookie reissued for a known visitor")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})
	rec = httptest.NewRecorder()
	h(e.NewContext(req, rec))
	if seen == first || len(rec.Result().Cookies()) != 1 {
		t.Fatal("malformed cookie accepted")
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/booking/confirm", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/booking/confirm")

	cases := map[string]string{
		"ip":            "rl:ip:10.0.0.7",
		"user":          "rl:user:guest",
		"ip_route":      "rl:ip:10.0.0.7:route:POST /booking/confirm",
		"ip_user_route": "rl:ip:10.0.0.7:user:guest:route:POST /booking/confirm",
	}
	for strategy, want := range cases {
		got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		if got != want {
			t.Errorf("%s: key = %q, want %q", strategy, got, want)
		}
	}
}

func TestLimiterAndCachePassThroughWithoutRedis(t *testing.T) {
	rl := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, nil)
	cache := NewCatalogCache(config.CatalogCacheConfig{Enabled: true}, nil)
	for _, mw := range []echo.MiddlewareFunc{rl, cache} {
		if rec := runWithVisitor(t, nil, mw); rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
}
