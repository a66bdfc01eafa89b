package server

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestPassword = "Sup3r-Secret-Pass!"

func newAuthTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)
	app.Post("/api/auth/login", s.Login)
	return app
}

func TestSignup(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	app := newAuthTestApp(s)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username":     "alice",
		"email":        "alice@example.com",
		"password":     handlerTestPassword,
		"confirmation": handlerTestPassword,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
}

func TestSignup_Validation(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	app := newAuthTestApp(s)

	t.Run("password mismatch", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
			"username":     "alice",
			"email":        "alice@example.com",
			"password":     handlerTestPassword,
			"confirmation": "Different-Pass-99!",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})

	t.Run("duplicate username", func(t *testing.T) {
		payload := fiber.Map{
			"username":     "bob",
			"email":        "bob@example.com",
			"password":     handlerTestPassword,
			"confirmation": handlerTestPassword,
		}
		resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		payload["email"] = "bob2@example.com"
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", payload)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", body["code"])
	})
}

func TestLogin(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	app := newAuthTestApp(s)

	_, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username":     "alice",
		"email":        "alice@example.com",
		"password":     handlerTestPassword,
		"confirmation": handlerTestPassword,
	})
	require.NotEmpty(t, body["token"])

	t.Run("valid credentials", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
			"username": "alice",
			"password": handlerTestPassword,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
			"username": "alice",
			"password": "Wrong-Password-1!",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid username and/or password", body["error"])
	})

	t.Run("unknown user", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
			"username": "nobody",
			"password": handlerTestPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid username and/or password", body["error"])
	})
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	s.config.JWTSecret = ""

	_, err := s.generateToken(1, "alice")
	assert.Error(t, err)
}
