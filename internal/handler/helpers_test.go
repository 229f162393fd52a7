package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"

	"wcm/internal/auth"
	"wcm/internal/middleware"
	"wcm/internal/repository"
	"wcm/internal/service"
)

const testJWTSecret = "handler-test-secret"

// testEnv wires real services over a sqlmock database, the way the running
// server wires them, with the auth middleware in front.
type testEnv struct {
	Router      *mux.Router
	Mock        sqlmock.Sqlmock
	DB          *sql.DB
	CampaignSvc *service.CampaignService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	reportRepo := repository.NewReportRepository(db)

	sender := service.NewSenderService(1.0, 0, 0)
	authSvc := service.NewAuthService(userRepo, testJWTSecret, 24)
	campaignSvc := service.NewCampaignService(campaignRepo, recipientRepo, sender, nil)
	reportSvc := service.NewReportService(campaignRepo, reportRepo)

	authHandler := NewAuthHandler(authSvc)
	campaignHandler := NewCampaignHandler(campaignSvc)
	reportHandler := NewReportHandler(reportSvc)

	router := mux.NewRouter()
	router.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api := router.PathPrefix("/").Subrouter()
	api.Use(middleware.Authenticate(testJWTSecret))
	api.HandleFunc("/campaigns", campaignHandler.Create).Methods("POST")
	api.HandleFunc("/campaigns", campaignHandler.List).Methods("GET")
	api.HandleFunc("/campaigns/{id}", campaignHandler.GetByID).Methods("GET")
	api.HandleFunc("/campaigns/{id}", campaignHandler.Delete).Methods("DELETE")
	api.HandleFunc("/campaigns/{id}/status", campaignHandler.UpdateStatus).Methods("PUT")
	api.HandleFunc("/campaigns/{id}/send", campaignHandler.Send).Methods("POST")
	api.HandleFunc("/campaigns/{id}/report", reportHandler.CampaignReport).Methods("GET")
	api.HandleFunc("/reports", reportHandler.OwnerReports).Methods("GET")
	api.HandleFunc("/reports/summary", reportHandler.OwnerSummary).Methods("GET")

	t.Cleanup(func() { db.Close() })

	return &testEnv{
		Router:      router,
		Mock:        mock,
		DB:          db,
		CampaignSvc: campaignSvc,
	}
}

// newJSONRequest builds a request with a JSON body.
func newJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// authorize attaches a valid bearer token for the given user.
func authorize(t *testing.T, req *http.Request, userID int, username string) {
	t.Helper()

	token, err := auth.GenerateToken(userID, username, testJWTSecret, 1)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func doRequest(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	env.Router.ServeHTTP(resp, req)
	return resp
}

func parseJSON(t *testing.T, resp *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to parse response %q: %v", resp.Body.String(), err)
	}
}

func assertStatus(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()

	if resp.Code != want {
		t.Fatalf("expected status %d, got %d (body: %s)", want, resp.Code, resp.Body.String())
	}
}

func assertErrorCode(t *testing.T, resp *httptest.ResponseRecorder, want string) {
	t.Helper()

	var errResp ErrorResponse
	parseJSON(t, resp, &errResp)
	if errResp.Error.Code != want {
		t.Errorf("expected error code %s, got %s", want, errResp.Error.Code)
	}
}
