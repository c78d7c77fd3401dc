package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"kyc/internal/auth/handler/mocks"
	"kyc/internal/auth/models"
	"kyc/internal/auth/service"
	kycmodels "kyc/internal/kyc/models"
	"kyc/internal/platform/middleware"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/testutil"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(_ context.Context, token string) (id.UserID, error) {
	if token != "good" {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return id.NewUserID(), nil
}

type AuthHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	s.service = mocks.NewMockService(gomock.NewController(s.T()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router, middleware.RequireAuth(stubValidator{}, logger))
}

func (s *AuthHandlerSuite) authed(req *http.Request) *http.Request {
	return testutil.WithBearer(req, "good")
}

func (s *AuthHandlerSuite) TestLogin() {
	u := &models.User{ID: id.NewUserID(), Email: "op@example.com", PasswordHash: "secret-hash", Active: true}
	expires := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.service.EXPECT().Login(gomock.Any(), "op@example.com", "password123").
		Return(&service.LoginResult{AccessToken: "jwt", ExpiresAt: expires, User: u}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
		LoginRequest{Email: " op@example.com ", Password: "password123"}))

	testutil.AssertStatusOK(s.T(), rr)
	body := string(testutil.ReadBody(s.T(), rr))
	s.Contains(body, `"access_token":"jwt"`)
	s.Contains(body, `"token_type":"Bearer"`)
	s.NotContains(body, "secret-hash")
}

func (s *AuthHandlerSuite) TestLoginFailures() {
	s.Run("missing password", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
			LoginRequest{Email: "op@example.com"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
	s.Run("bad credentials", func() {
		s.service.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/login",
			LoginRequest{Email: "op@example.com", Password: "wrong-password"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})
	s.Run("malformed body", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPost, "/auth/login", "{"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *AuthHandlerSuite) TestPasswordReset() {
	s.service.EXPECT().RequestPasswordReset(gomock.Any(), "op@example.com", "en").Return(nil)
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/password-reset",
		PasswordResetRequest{Email: "op@example.com", Language: "en"}))
	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)

	s.service.EXPECT().ResetPassword(gomock.Any(), "tok", "new-password").
		Return(dErrors.New(dErrors.CodeConflict, "reset token already used"))
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/password-reset/confirm",
		ResetPasswordRequest{Token: "tok", Password: "new-password"}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
}

func (s *AuthHandlerSuite) TestUserRoutesRequireAuth() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users"))
	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
}

func (s *AuthHandlerSuite) TestCreateAndListUsers() {
	created := &models.User{ID: id.NewUserID(), Email: "new@example.com"}
	s.service.EXPECT().CreateUser(gomock.Any(), service.CreateUserInput{
		Name: "Jan", Surname: "Novak", Email: "new@example.com", Password: "password123",
	}).Return(created, nil)

	rr := testutil.DoRequest(s.router, s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/users",
		CreateUserRequest{Name: " Jan ", Surname: "Novak", Email: "new@example.com", Password: "password123"})))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	testutil.AssertJSONContains(s.T(), rr, "email", "new@example.com")

	s.service.EXPECT().ListUsers(gomock.Any(), kycmodels.Page{Skip: 2, Limit: 10}).Return([]*models.User{created}, nil)
	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/users?skip=2&limit=10")))
	testutil.AssertStatusOK(s.T(), rr)
	list := testutil.UnmarshalResponse[[]UserResponse](s.T(), rr)
	s.Len(*list, 1)
}

func (s *AuthHandlerSuite) TestActivateAndGetUser() {
	userID := id.NewUserID()
	s.service.EXPECT().ActivateUser(gomock.Any(), userID).Return(&models.User{ID: userID, Active: true}, nil)
	rr := testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodPost, "/users/"+userID.String()+"/activate")))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "active", true)

	s.service.EXPECT().DeactivateUser(gomock.Any(), userID).Return(&models.User{ID: userID}, nil)
	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodPost, "/users/"+userID.String()+"/deactivate")))
	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "active", false)

	s.service.EXPECT().DeactivateUser(gomock.Any(), userID).
		Return(nil, dErrors.New(dErrors.CodeForbidden, "operators cannot deactivate their own account"))
	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodPost, "/users/"+userID.String()+"/deactivate")))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, dErrors.CodeForbidden)

	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/users/not-a-uuid")))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)

	s.service.EXPECT().GetUser(gomock.Any(), userID).Return(nil, errors.New("db down"))
	rr = testutil.DoRequest(s.router, s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/users/"+userID.String())))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
}
