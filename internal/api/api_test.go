package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ladlelabs/ladle/backend/internal/api"
	"github.com/ladlelabs/ladle/backend/internal/service"
	"github.com/ladlelabs/ladle/backend/internal/testhelpers"
)

const testJWTSecret = "test-secret"

// setupTestRouter wires every handler onto a bare engine, without the
// middleware stack the production router adds on top.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)

	authService := service.NewAuthService(db, testJWTSecret)
	userService := service.NewUserService(db)
	recipeService := service.NewRecipeService(db)
	relationService := service.NewRelationService(db)
	shoppingService := service.NewShoppingListService(db)

	router := gin.New()
	v1 := router.Group("/api/v1")

	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewUserHandler(userService, relationService, authService).RegisterRoutes(v1)
	api.NewRecipeHandler(recipeService, relationService, shoppingService, userService, nil, authService).RegisterRoutes(v1)
	api.NewTagHandler(service.NewTagService(db)).RegisterRoutes(v1)
	api.NewIngredientHandler(service.NewIngredientService(db)).RegisterRoutes(v1)

	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerUser creates an account through the API and returns its token
// and user id.
func registerUser(t *testing.T, router *gin.Engine, username string) (token, userID string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":   username,
		"email":      username + "@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"password":   testhelpers.TestPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, _ = body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)
	return token, userID
}
