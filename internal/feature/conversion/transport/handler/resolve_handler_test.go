package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/conversion/transport/handler"
)

// mockResolveUsecase はResolveUsecaseインターフェースのモック実装です。
type mockResolveUsecase struct {
	ResolveFunc func(ctx context.Context, lines []string) (entity.SymbolMap, error)
}

func (m *mockResolveUsecase) Resolve(ctx context.Context, lines []string) (entity.SymbolMap, error) {
	return m.ResolveFunc(ctx, lines)
}

type mockCacheReader struct {
	m entity.SymbolMap
}

func (m *mockCacheReader) Read(ctx context.Context) entity.SymbolMap {
	return m.m
}

// TestResolveHandler_Resolve はResolveのHTTPリクエスト/レスポンス処理をテストします。
func TestResolveHandler_Resolve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockResolve    func(ctx context.Context, lines []string) (entity.SymbolMap, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: input order preserved",
			body: `{"lines":["US4592001014;IBM","BAD","US0378331005","XX0000000000"]}`,
			mockResolve: func(ctx context.Context, lines []string) (entity.SymbolMap, error) {
				assert.Len(t, lines, 4)
				return entity.SymbolMap{
					"US0378331005": "NASDAQ:AAPL",
					"US4592001014": "NYSE:IBM",
					"XX0000000000": "XX0000000000error",
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"symbols":[` +
				`{"isin":"US4592001014","symbol":"NYSE:IBM","failed":false},` +
				`{"isin":"US0378331005","symbol":"NASDAQ:AAPL","failed":false},` +
				`{"isin":"XX0000000000","symbol":"XX0000000000error","failed":true}],"errors":1}`,
		},
		{
			name: "success: nothing to resolve",
			body: `{"lines":["short"]}`,
			mockResolve: func(ctx context.Context, lines []string) (entity.SymbolMap, error) {
				return entity.SymbolMap{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"symbols":[],"errors":0}`,
		},
		{
			name:           "error: malformed body",
			body:           `{"lines":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error: missing lines",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error: cache persistence failure",
			body: `{"lines":["US0378331005"]}`,
			mockResolve: func(ctx context.Context, lines []string) (entity.SymbolMap, error) {
				return entity.SymbolMap{"US0378331005": "NASDAQ:AAPL"}, errors.New("persist symbol cache: disk full")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"persist symbol cache: disk full"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mockUsecase := &mockResolveUsecase{
				ResolveFunc: func(ctx context.Context, lines []string) (entity.SymbolMap, error) {
					if tt.mockResolve == nil {
						t.Fatal("usecase must not be called")
					}
					return tt.mockResolve(ctx, lines)
				},
			}
			h := handler.NewResolveHandler(mockUsecase, &mockCacheReader{})

			router := gin.New()
			router.POST("/api/v1/resolve", h.Resolve)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/resolve", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				body, _ := io.ReadAll(w.Body)
				assert.JSONEq(t, tt.expectedBody, string(body))
			}
		})
	}
}

func TestResolveHandler_Cache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := handler.NewResolveHandler(&mockResolveUsecase{}, &mockCacheReader{m: entity.SymbolMap{
		"US4592001014": "NYSE:IBM",
		"US0378331005": "NASDAQ:AAPL",
	}})

	router := gin.New()
	router.GET("/api/v1/cache", h.Cache)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`[{"isin":"US0378331005","symbol":"NASDAQ:AAPL"},{"isin":"US4592001014","symbol":"NYSE:IBM"}]`,
		w.Body.String())
}

func TestResolveHandler_CacheEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := handler.NewResolveHandler(&mockResolveUsecase{}, &mockCacheReader{m: entity.SymbolMap{}})

	router := gin.New()
	router.GET("/api/v1/cache", h.Cache)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
