package user_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/PrjctQ/qcore/internal/user"
	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/response"
	"github.com/PrjctQ/qcore/pkg/router"
	"github.com/PrjctQ/qcore/pkg/testutil"
	"github.com/PrjctQ/qcore/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEnvironment wires the scaffolded user resource against an
// in-memory database, the way an application would.
func setupTestEnvironment(t *testing.T) (*gin.Engine, *testutil.MockTokenManager) {
	t.Helper()

	db := testutil.SetupTestDB(t, &user.User{})
	t.Cleanup(func() {
		testutil.CleanupTestDB(t, db)
	})

	cfg := testutil.NewTestConfig()
	mockTokens := testutil.NewMockTokenManager()

	userService, err := user.NewService(db, cfg, mockTokens)
	require.NoError(t, err)
	userController := user.NewController(userService)

	engine := testutil.SetupTestRouter()
	api := engine.Group("/api/v1")
	router.Mount(api, "", user.NewResource(userController))
	user.RegisterProtected(api, userController, mockTokens)

	return engine, mockTokens
}

func createUser(t *testing.T, engine *gin.Engine, email, password string) response.Envelope {
	t.Helper()

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/users",
		Body:   map[string]string{"email": email, "password": password},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	return env
}

func TestCreateUser_Success(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	// When: creating a user with a valid body
	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/users",
		Body:   map[string]string{"email": "test@email.com", "password": "password123"},
	})

	// Then: the envelope reports created and data omits the password
	assert.Equal(t, http.StatusCreated, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.Equal(t, "Successfully created data", env.Message)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test@email.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotZero(t, data["id"])
}

func TestCreateUser_ValidationError(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/users",
		Body:   map[string]string{"email": "test@email.com", "password": "short"},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.False(t, env.Success)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "password", env.Errors[0].Path)
	assert.Equal(t, apierror.CodeValidationError, env.Errors[0].Code)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	createUser(t, engine, "dup@email.com", "password123")

	// When: creating another user with the same email
	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/users",
		Body:   map[string]string{"email": "dup@email.com", "password": "password456"},
	})

	// Then: the unique violation is normalized to a 409 envelope
	assert.Equal(t, http.StatusConflict, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.False(t, env.Success)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, apierror.CodeDuplicateEntry, env.Errors[0].Code)
	assert.Equal(t, "email", env.Errors[0].Path)
}

func TestGetUser_NotFound(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/api/v1/users/99999",
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "id", env.Errors[0].Path)
	assert.Equal(t, "Entity not found for ID: 99999", env.Errors[0].Message)
	assert.Equal(t, apierror.CodeResourceNotFound, env.Errors[0].Code)
}

func TestDeleteUser_ThenGetIsNotFound(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	created := createUser(t, engine, "gone@email.com", "password123")
	data := created.Data.(map[string]any)
	id := fmt.Sprintf("%v", data["id"])

	// When: soft-deleting the user
	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodDelete,
		URL:    "/api/v1/users/" + id,
	})
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Then: a subsequent read misses
	recorder = testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/api/v1/users/" + id,
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateUser_EmptyBodyRejected(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	created := createUser(t, engine, "patch@email.com", "password123")
	data := created.Data.(map[string]any)
	id := fmt.Sprintf("%v", data["id"])

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPut,
		URL:    "/api/v1/users/" + id,
		Body:   map[string]string{},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.False(t, env.Success)
}

func TestUpdateUser_Success(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	created := createUser(t, engine, "old@email.com", "password123")
	data := created.Data.(map[string]any)
	id := fmt.Sprintf("%v", data["id"])

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPut,
		URL:    "/api/v1/users/" + id,
		Body:   map[string]string{"email": "new@email.com"},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.Equal(t, "Successfully updated data", env.Message)
	updated := env.Data.(map[string]any)
	assert.Equal(t, "new@email.com", updated["email"])
}

func TestListUsers_FilterAndEnvelope(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	createUser(t, engine, "a@email.com", "password123")
	createUser(t, engine, "b@email.com", "password123")

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    `/api/v1/users?filter={"email":"a@email.com"}`,
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.True(t, env.Success)
	assert.Equal(t, "Successfully retrieved data", env.Message)

	list, ok := env.Data.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	assert.Equal(t, "a@email.com", first["email"])
	assert.NotContains(t, first, "password")
}

func TestLogin_Success(t *testing.T) {
	engine, mockTokens := setupTestEnvironment(t)
	mockTokens.GenerateFunc = func(subject, email string) (string, error) {
		return "signed-token", nil
	}

	createUser(t, engine, "login@email.com", "password123")

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/users/login",
		Body:   map[string]string{"email": "login@email.com", "password": "password123"},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	data := env.Data.(map[string]any)
	assert.Equal(t, "signed-token", data["token"])
}

func TestMe_ReturnsAuthenticatedUser(t *testing.T) {
	engine, mockTokens := setupTestEnvironment(t)

	created := createUser(t, engine, "me@email.com", "password123")
	data := created.Data.(map[string]any)
	id := fmt.Sprintf("%v", data["id"])

	mockTokens.ValidateFunc = func(tokenString string) (*token.Claims, error) {
		require.Equal(t, "valid-token", tokenString)
		return &token.Claims{Subject: id, Email: "me@email.com"}, nil
	}

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method:  http.MethodGet,
		URL:     "/api/v1/me",
		Headers: map[string]string{"Authorization": "Bearer valid-token"},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	me := env.Data.(map[string]any)
	assert.Equal(t, "me@email.com", me["email"])
	assert.NotContains(t, me, "password")
}

func TestMe_MissingTokenRejected(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/api/v1/me",
	})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.False(t, env.Success)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, apierror.CodeUnauthorized, env.Errors[0].Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	engine, _ := setupTestEnvironment(t)

	createUser(t, engine, "secure@email.com", "password123")

	recorder := testutil.ExecuteRequest(t, engine, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/api/v1/users/login",
		Body:   map[string]string{"email": "secure@email.com", "password": "wrong-password"},
	})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	var env response.Envelope
	testutil.ParseResponse(t, recorder, &env)
	assert.False(t, env.Success)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, apierror.CodeUnauthorized, env.Errors[0].Code)
}
