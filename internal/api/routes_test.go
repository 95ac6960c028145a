package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vfcarvalho/meu-treino/internal/domain"
	"vfcarvalho/meu-treino/internal/identity"
	"vfcarvalho/meu-treino/internal/service"
	"vfcarvalho/meu-treino/internal/session"
)

const testCookie = "mt_session"

// --- Fakes / Mocks ---

type fakeIdentityClient struct {
	signIn func(ctx context.Context, email, password string) (*identity.Credentials, error)
	signUp func(ctx context.Context, email, password string) (*identity.Credentials, error)
}

func (f *fakeIdentityClient) SignIn(ctx context.Context, email, password string) (*identity.Credentials, error) {
	return f.signIn(ctx, email, password)
}

func (f *fakeIdentityClient) SignUp(ctx context.Context, email, password string) (*identity.Credentials, error) {
	return f.signUp(ctx, email, password)
}

type mockExerciseService struct {
	mock.Mock
}

func (m *mockExerciseService) List(ctx context.Context, userID string) ([]domain.Exercise, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Exercise), args.Error(1)
}

func (m *mockExerciseService) Create(ctx context.Context, userID string, input service.CreateExerciseInput) (*domain.Exercise, error) {
	args := m.Called(ctx, userID, input)
	if ex := args.Get(0); ex != nil {
		return ex.(*domain.Exercise), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockExerciseService) Complete(ctx context.Context, userID string, id primitive.ObjectID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockExerciseService) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockExerciseService) RequestVideoUpload(ctx context.Context, userID string, id primitive.ObjectID, contentType string) (*service.VideoUpload, error) {
	args := m.Called(ctx, userID, id, contentType)
	if up := args.Get(0); up != nil {
		return up.(*service.VideoUpload), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockExerciseService) AttachVideo(ctx context.Context, userID string, id primitive.ObjectID, objectKey string) error {
	return m.Called(ctx, userID, id, objectKey).Error(0)
}

func (m *mockExerciseService) ResolveVideoURL(ctx context.Context, ex *domain.Exercise) string {
	return ex.VideoURL
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Profile(ctx context.Context, userID string) (map[string]any, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(map[string]any), args.Error(1)
}

// --- Fixture ---

type fixture struct {
	router      *gin.Engine
	authService service.AuthService
	sessions    *session.Manager
	exercises   *mockExerciseService
	users       *mockUserService
}

func newFixture(t *testing.T, idClient service.IdentityClient) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(time.Hour)
	t.Cleanup(sessions.Close)

	f := &fixture{
		sessions:  sessions,
		exercises: new(mockExerciseService),
		users:     new(mockUserService),
	}
	f.authService = service.NewAuthService(idClient, sessions)
	f.router = gin.New()
	SetupRoutes(f.router, testCookie, f.authService, f.users, f.exercises)
	return f
}

func (f *fixture) signedInCookie(idToken string) *http.Cookie {
	token := f.sessions.Create(domain.Session{
		Email:   "user1@example.com",
		UserID:  "uid-1",
		IDToken: idToken,
	})
	return &http.Cookie{Name: testCookie, Value: token}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "uid-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := tok.SignedString([]byte("provider-secret"))
	require.NoError(t, err)
	return s
}

// --- Router state machine ---

func TestHomeRedirectsToLoginWithoutSession(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})

	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestLoginRedirectsHomeWhenAuthenticated(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestJSONEndpointsGet401WithoutSession(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodPost, "/api/exercises/"+id+"/video", strings.NewReader(`{"contentType":"video/mp4"}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestExpiredIDTokenForcesReLogin(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})

	cookie := f.signedInCookie(signedToken(t, time.Now().Add(-time.Minute)))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	w := f.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The session was destroyed, not just hidden.
	_, ok := f.sessions.Get(cookie.Value)
	assert.False(t, ok)
}

func TestLiveIDTokenPasses(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	f.users.On("Profile", mock.Anything, "uid-1").Return(map[string]any{}, nil)
	f.exercises.On("List", mock.Anything, "uid-1").Return([]domain.Exercise{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(f.signedInCookie(signedToken(t, time.Now().Add(time.Hour))))
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Auth flow ---

func TestLoginSuccessSetsCookieAndRedirects(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{
		signIn: func(_ context.Context, email, password string) (*identity.Credentials, error) {
			return &identity.Credentials{Email: email, UserID: "uid-1", IDToken: "tok"}, nil
		},
	})

	form := url.Values{"email": {"user1@example.com"}, "password": {"pass1234"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, testCookie, cookies[0].Name)

	_, ok := f.sessions.Get(cookies[0].Value)
	assert.True(t, ok)
}

func TestLoginFailureShowsProviderMessage(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{
		signIn: func(_ context.Context, _, _ string) (*identity.Credentials, error) {
			return nil, &identity.AuthError{Message: "INVALID_PASSWORD"}
		},
	})

	form := url.Values{"email": {"user1@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_PASSWORD")
	assert.Empty(t, w.Result().Cookies())
}

func TestSignupSuccessShowsNoticeWithoutSigningIn(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{
		signUp: func(_ context.Context, email, _ string) (*identity.Credentials, error) {
			return &identity.Credentials{Email: email, UserID: "uid-new"}, nil
		},
	})

	form := url.Values{"email": {"new@example.com"}, "password": {"pass1234"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Account created")
	assert.Empty(t, w.Result().Cookies())
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	cookie := f.signedInCookie("")

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	w := f.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	_, ok := f.sessions.Get(cookie.Value)
	assert.False(t, ok)
}

// --- Exercise screen ---

func TestHomeRendersExerciseList(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	f.users.On("Profile", mock.Anything, "uid-1").Return(map[string]any{"plan": "hypertrophy"}, nil)
	f.exercises.On("List", mock.Anything, "uid-1").Return([]domain.Exercise{
		{ID: primitive.NewObjectID(), UserID: "uid-1", Group: domain.GroupA, Name: "Squat", Load: 60},
		{ID: primitive.NewObjectID(), UserID: "uid-1", Group: domain.GroupB, Name: "Bench Press", Load: 42.5, Done: true},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Squat")
	assert.Contains(t, body, "60 kg")
	assert.Contains(t, body, "Bench Press")
	assert.Contains(t, body, "42.5 kg")
	assert.Contains(t, body, "hypertrophy")
	assert.Contains(t, body, "user1@example.com")
}

func TestCreateExerciseRedirectsOnSuccess(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	f.exercises.On("Create", mock.Anything, "uid-1", service.CreateExerciseInput{
		Group:    domain.GroupA,
		Name:     "Squat",
		Load:     60,
		VideoURL: "",
	}).Return(&domain.Exercise{ID: primitive.NewObjectID(), Name: "Squat"}, nil)

	form := url.Values{"group": {"A"}, "name": {"Squat"}, "load": {"60"}}
	req := httptest.NewRequest(http.MethodPost, "/exercises", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	f.exercises.AssertExpectations(t)
}

func TestCreateExerciseValidationFailureRerenders(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	f.users.On("Profile", mock.Anything, "uid-1").Return(map[string]any{}, nil)
	f.exercises.On("List", mock.Anything, "uid-1").Return([]domain.Exercise{}, nil)
	f.exercises.On("Create", mock.Anything, "uid-1", mock.Anything).
		Return(nil, service.ErrValidationFailed)

	form := url.Values{"group": {"D"}, "name": {"Squat"}, "load": {"60"}}
	req := httptest.NewRequest(http.MethodPost, "/exercises", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
}

func TestCompleteExercise(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	id := primitive.NewObjectID()
	f.exercises.On("Complete", mock.Anything, "uid-1", id).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/exercises/"+id.Hex()+"/done", nil)
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	f.exercises.AssertExpectations(t)
}

func TestDeleteExercise(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	id := primitive.NewObjectID()
	f.exercises.On("Delete", mock.Anything, "uid-1", id).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/exercises/"+id.Hex()+"/delete", nil)
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	assert.Equal(t, http.StatusFound, w.Code)
	f.exercises.AssertExpectations(t)
}

func TestVideoUploadDisabledReturns404(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	id := primitive.NewObjectID()
	f.exercises.On("RequestVideoUpload", mock.Anything, "uid-1", id, "video/mp4").
		Return(nil, service.ErrVideoStorageDisabled)

	req := httptest.NewRequest(http.MethodPost, "/api/exercises/"+id.Hex()+"/video", strings.NewReader(`{"contentType":"video/mp4"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideoUploadFlow(t *testing.T) {
	f := newFixture(t, &fakeIdentityClient{})
	id := primitive.NewObjectID()
	f.exercises.On("RequestVideoUpload", mock.Anything, "uid-1", id, "video/mp4").
		Return(&service.VideoUpload{UploadURL: "https://bucket/put", ObjectKey: "videos/k"}, nil)
	f.exercises.On("AttachVideo", mock.Anything, "uid-1", id, "videos/k").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/exercises/"+id.Hex()+"/video", strings.NewReader(`{"contentType":"video/mp4"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(f.signedInCookie(""))
	w := f.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://bucket/put")

	req = httptest.NewRequest(http.MethodPost, "/api/exercises/"+id.Hex()+"/video/confirm", strings.NewReader(`{"objectKey":"videos/k"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(f.signedInCookie(""))
	w = f.do(req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	f.exercises.AssertExpectations(t)
}
