package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-style-backend/internal/catalog"
	"github.com/tbourn/go-style-backend/internal/domain"
	"github.com/tbourn/go-style-backend/internal/services"
)

//
// Fakes
//

type fakeSessions struct {
	loadOrCreate func(ctx context.Context, id string) (*domain.Session, bool, error)
	get          func(ctx context.Context, id string) (*domain.Session, error)
	submit       func(ctx context.Context, id string, in services.ChoiceInput) (*domain.Session, error)
	confirm      func(ctx context.Context, id string) (*domain.Session, error)
	reject       func(ctx context.Context, id string) (*domain.Session, error)
	restart      func(ctx context.Context, id string) (*domain.Session, error)
	recommend    func(ctx context.Context, id string, count int) (*services.RecommendationSet, error)
	estimate     func(s *domain.Session) (int, bool)
}

func (f *fakeSessions) LoadOrCreate(ctx context.Context, id string) (*domain.Session, bool, error) {
	return f.loadOrCreate(ctx, id)
}
func (f *fakeSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	return f.get(ctx, id)
}
func (f *fakeSessions) SubmitChoice(ctx context.Context, id string, in services.ChoiceInput) (*domain.Session, error) {
	return f.submit(ctx, id, in)
}
func (f *fakeSessions) ConfirmRecommendation(ctx context.Context, id string) (*domain.Session, error) {
	return f.confirm(ctx, id)
}
func (f *fakeSessions) RejectRecommendation(ctx context.Context, id string) (*domain.Session, error) {
	return f.reject(ctx, id)
}
func (f *fakeSessions) Restart(ctx context.Context, id string) (*domain.Session, error) {
	return f.restart(ctx, id)
}
func (f *fakeSessions) Recommendations(ctx context.Context, id string, count int) (*services.RecommendationSet, error) {
	return f.recommend(ctx, id, count)
}
func (f *fakeSessions) EstimateRemaining(s *domain.Session) (int, bool) {
	if f.estimate != nil {
		return f.estimate(s)
	}
	return 0, false
}

type fakeCatalog struct {
	styles []catalog.StyleCatalogEntry
}

func (f *fakeCatalog) Styles() []catalog.StyleCatalogEntry { return f.styles }

func (f *fakeCatalog) DisplayName(id string) string {
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func discoverySession(id string) *domain.Session {
	return &domain.Session{
		ID:           id,
		Phase:        domain.PhaseDiscovery,
		CurrentRound: 1,
		Scores:       domain.StyleScores{},
	}
}

func serve(h *Handlers, register func(r *gin.Engine, h *Handlers), req *http.Request) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r, h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

//
// Tests
//

func TestSessionIDHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if got := sessionID(c); got != "" {
		t.Errorf("empty context: sessionID = %q", got)
	}

	c.Request.Header.Set("X-Session-ID", "  from-header  ")
	if got := sessionID(c); got != "from-header" {
		t.Errorf("header: sessionID = %q", got)
	}

	c.Set("sessionID", "from-context")
	if got := sessionID(c); got != "from-context" {
		t.Errorf("context wins: sessionID = %q", got)
	}
}

func TestLoadOrCreateSession_StatusAndHeader(t *testing.T) {
	cases := []struct {
		name    string
		created bool
		want    int
	}{
		{"new session", true, http.StatusCreated},
		{"existing session", false, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(&fakeSessions{
				loadOrCreate: func(_ context.Context, id string) (*domain.Session, bool, error) {
					return discoverySession("s1"), tc.created, nil
				},
			}, &fakeCatalog{})

			req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
			w := serve(h, func(r *gin.Engine, h *Handlers) { r.POST("/sessions", h.LoadOrCreateSession) }, req)

			if w.Code != tc.want {
				t.Fatalf("status = %d; want %d", w.Code, tc.want)
			}
			if got := w.Header().Get("X-Session-ID"); got != "s1" {
				t.Errorf("X-Session-ID = %q", got)
			}
			var resp SessionResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.ID != "s1" || resp.Phase != domain.PhaseDiscovery {
				t.Errorf("body = %+v", resp)
			}
		})
	}
}

func TestGetSession_NotFound(t *testing.T) {
	h := New(&fakeSessions{
		get: func(_ context.Context, id string) (*domain.Session, error) {
			return nil, services.ErrSessionNotFound
		},
	}, &fakeCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/sessions/current", nil)
	req.Header.Set("X-Session-ID", "gone")
	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/sessions/current", h.GetSession) }, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeNotFound {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestRejectRecommendation_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no alternative", services.ErrNoAlternative, http.StatusConflict, ErrCodeNoAlternative},
		{"wrong phase", &services.InvalidTransitionError{Phase: domain.PhaseDiscovery, Action: "reject_recommendation"}, http.StatusConflict, ErrCodeInvalidTransition},
		{"not found", services.ErrSessionNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(&fakeSessions{
				reject: func(_ context.Context, id string) (*domain.Session, error) { return nil, tc.err },
			}, &fakeCatalog{})

			req := httptest.NewRequest(http.MethodPost, "/reject", nil)
			w := serve(h, func(r *gin.Engine, h *Handlers) { r.POST("/reject", h.RejectRecommendation) }, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", w.Code, tc.wantStatus)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tc.wantCode {
				t.Errorf("code = %q; want %q", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestSubmitChoice_BadJSON(t *testing.T) {
	h := New(&fakeSessions{}, &fakeCatalog{})
	req := httptest.NewRequest(http.MethodPost, "/choices", bytes.NewBufferString("{not json"))
	w := serve(h, func(r *gin.Engine, h *Handlers) { r.POST("/choices", h.SubmitChoice) }, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestSubmitChoice_ValidationMapsTo422(t *testing.T) {
	h := New(&fakeSessions{
		submit: func(_ context.Context, id string, in services.ChoiceInput) (*domain.Session, error) {
			return nil, services.ErrRationaleTooShort
		},
	}, &fakeCatalog{})

	body, _ := json.Marshal(SubmitChoiceRequest{
		SelectedItemID: "item-001",
		RejectedItemID: "item-002",
		StyleTags:      []string{"modern"},
		Rationale:      "too short!",
	})
	req := httptest.NewRequest(http.MethodPost, "/choices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(h, func(r *gin.Engine, h *Handlers) { r.POST("/choices", h.SubmitChoice) }, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; want 422", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != ErrCodeValidation {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestSubmitChoice_PassesSanitizedInput(t *testing.T) {
	var got services.ChoiceInput
	h := New(&fakeSessions{
		submit: func(_ context.Context, id string, in services.ChoiceInput) (*domain.Session, error) {
			got = in
			s := discoverySession("s1")
			s.CurrentRound = 2
			return s, nil
		},
	}, &fakeCatalog{})

	body, _ := json.Marshal(SubmitChoiceRequest{
		SelectedItemID: " item-001 ",
		RejectedItemID: "item-002",
		StyleTags:      []string{"modern"},
		Rationale:      "line one\r\n\r\n\r\n\r\nline two  ",
	})
	req := httptest.NewRequest(http.MethodPost, "/choices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "s1")
	w := serve(h, func(r *gin.Engine, h *Handlers) { r.POST("/choices", h.SubmitChoice) }, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if got.SelectedItemID != "item-001" {
		t.Errorf("selected = %q; want trimmed", got.SelectedItemID)
	}
	if got.Rationale != "line one\n\nline two" {
		t.Errorf("rationale = %q; want normalized newlines", got.Rationale)
	}
}

func TestSanitizeRationale(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\n\n\n\n\nb", "a\n\nb"},
	}
	for _, tc := range cases {
		if got := sanitizeRationale(tc.in); got != tc.want {
			t.Errorf("sanitizeRationale(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestGetRecommendations_CountClamping(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"?count=5", 5},
		{"?count=0", 10},
		{"?count=999", 50},
		{"?count=abc", 10},
	}
	for _, tc := range cases {
		var got int
		h := New(&fakeSessions{
			recommend: func(_ context.Context, id string, count int) (*services.RecommendationSet, error) {
				got = count
				return &services.RecommendationSet{StyleID: "modern", StyleName: "Modern"}, nil
			},
		}, &fakeCatalog{})

		req := httptest.NewRequest(http.MethodGet, "/recs"+tc.query, nil)
		w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/recs", h.GetRecommendations) }, req)
		if w.Code != http.StatusOK {
			t.Fatalf("query %q: status = %d", tc.query, w.Code)
		}
		if got != tc.want {
			t.Errorf("query %q: count = %d; want %d", tc.query, got, tc.want)
		}
	}

	t.Run("configured default", func(t *testing.T) {
		var got int
		h := New(&fakeSessions{
			recommend: func(_ context.Context, id string, count int) (*services.RecommendationSet, error) {
				got = count
				return &services.RecommendationSet{StyleID: "modern", StyleName: "Modern"}, nil
			},
		}, &fakeCatalog{})
		h.RecommendCount = 12

		req := httptest.NewRequest(http.MethodGet, "/recs", nil)
		w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/recs", h.GetRecommendations) }, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if got != 12 {
			t.Errorf("count = %d; want 12", got)
		}
	})
}

func TestListStyles(t *testing.T) {
	h := New(&fakeSessions{}, &fakeCatalog{
		styles: []catalog.StyleCatalogEntry{
			{ID: "modern", Description: "clean lines", RelatedStyles: []string{"minimalist"}},
			{ID: "rustic"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/styles", nil)
	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/styles", h.ListStyles) }, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ListStylesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Styles) != 2 {
		t.Fatalf("styles = %d; want 2", len(resp.Styles))
	}
	if resp.Styles[0].Name != "Modern" || resp.Styles[0].RelatedStyles[0] != "minimalist" {
		t.Errorf("first style = %+v", resp.Styles[0])
	}
}

func TestFailEnvelopeIncludesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Header("X-Request-ID", "rid-1"); c.Next() })
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "nope")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RequestID != "rid-1" || resp.Code != ErrCodeNotFound || resp.Message != "nope" {
		t.Errorf("envelope = %+v", resp)
	}
}
