package handlers_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/handlers"
	"github.com/SscSPs/school_ledger/internal/middleware"
	"github.com/SscSPs/school_ledger/internal/platform/config"
	"github.com/SscSPs/school_ledger/internal/utils/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	testIssuer = "school-ledger-test"
	testUserID = "bursar-1"
)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockAccountService  *MockAccountService
	mockCurrencyService *MockCurrencyService
	mockJournalService  *MockJournalService
	mockBalanceService  *MockBalanceService
	jwtSecret           string
}

// generateTestToken creates a signed JWT for the given subject.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	signed, err := token.Generate(userID, suite.jwtSecret, testIssuer, time.Hour)
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockAccountService = new(MockAccountService)
	suite.mockCurrencyService = new(MockCurrencyService)
	suite.mockJournalService = new(MockJournalService)
	suite.mockBalanceService = new(MockBalanceService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		JWTIssuer:    testIssuer,
		IsProduction: true,
	}
	services := &portssvc.ServiceContainer{
		Account:  suite.mockAccountService,
		Currency: suite.mockCurrencyService,
		Journal:  suite.mockJournalService,
		Balance:  suite.mockBalanceService,
	}

	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
	suite.mockCurrencyService.AssertExpectations(suite.T())
	suite.mockJournalService.AssertExpectations(suite.T())
	suite.mockBalanceService.AssertExpectations(suite.T())
}

// do sends an authenticated request to the router.
func (suite *HandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(testUserID))
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// decode unmarshals the response body, failing the test on malformed JSON.
func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), "Failed to unmarshal response body: %s", w.Body.String())
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.decode(w, &body)
	return body["error"]
}

func (suite *HandlerTestSuite) TestHealthIsPublic() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestAPIRequiresToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestSwaggerDisabledInProduction() {
	w := suite.do(http.MethodGet, "/swagger/index.html", "")
	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
