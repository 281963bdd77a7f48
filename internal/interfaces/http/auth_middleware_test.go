package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	apihttp "github.com/jhoicas/tours-api/internal/interfaces/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthenticator simula el resolvedor de sesiones: devuelve el usuario
// configurado para cualquier token no vacío, o el error inyectado.
type fakeAuthenticator struct {
	user     *entity.User
	err      error
	gotToken string
}

func (f *fakeAuthenticator) AuthenticateToken(token string) (*entity.User, error) {
	f.gotToken = token
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func testUser(role string) *entity.User {
	return &entity.User{ID: "u-1", Name: "Prueba", Email: "p@x.com", Role: role, Active: true}
}

// appWithProtected monta una ruta protegida que refleja la identidad resuelta.
func appWithProtected(auth *fakeAuthenticator, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := append([]fiber.Handler{apihttp.Protect(auth)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": apihttp.CurrentUser(c).ID})
	})
	app.Get("/protegida", handlers...)
	return app
}

func TestProtect_BearerHeader(t *testing.T) {
	auth := &fakeAuthenticator{user: testUser(entity.RoleUser)}
	app := appWithProtected(auth)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer token-abc")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "token-abc", auth.gotToken, "el token debe salir del header Bearer")
}

func TestProtect_Cookie(t *testing.T) {
	auth := &fakeAuthenticator{user: testUser(entity.RoleUser)}
	app := appWithProtected(auth)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.AddCookie(&http.Cookie{Name: apihttp.SessionCookie, Value: "token-cookie"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "token-cookie", auth.gotToken, "sin header Bearer, el token sale de la cookie")
}

func TestProtect_SinCredencial(t *testing.T) {
	auth := &fakeAuthenticator{user: testUser(entity.RoleUser)}
	app := appWithProtected(auth)

	resp, err := app.Test(httptest.NewRequest("GET", "/protegida", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "NOT_LOGGED_IN", out.Code)
}

func TestProtect_SesionExpirada(t *testing.T) {
	auth := &fakeAuthenticator{err: domain.ErrSessionExpired}
	app := appWithProtected(auth)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer token-viejo")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "SESSION_EXPIRED", out.Code)
}

func TestProtect_UsuarioDesaparecido(t *testing.T) {
	auth := &fakeAuthenticator{err: domain.ErrUserGone}
	app := appWithProtected(auth)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	auth := &fakeAuthenticator{user: testUser(entity.RoleAdmin)}
	app := appWithProtected(auth, apihttp.RequireRole(entity.RoleAdmin))

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	auth := &fakeAuthenticator{user: testUser(entity.RoleUser)}
	app := appWithProtected(auth, apihttp.RequireRole(entity.RoleAdmin, entity.RoleLeadGuide))

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "FORBIDDEN", out.Code)
}

func TestRequireRole_SinProtectResponde401(t *testing.T) {
	// RequireRole compuesto sin Protect: no hay usuario resuelto -> 401, nunca 200.
	app := fiber.New()
	app.Get("/solo-admin", apihttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/solo-admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIsLoggedIn_NuncaCortaLaRequest(t *testing.T) {
	auth := &fakeAuthenticator{err: domain.ErrInvalidSession}
	app := fiber.New()
	app.Get("/pagina", apihttp.IsLoggedIn(auth), func(c *fiber.Ctx) error {
		if user := apihttp.CurrentUser(c); user != nil {
			return c.JSON(fiber.Map{"loggedIn": true, "userId": user.ID})
		}
		return c.JSON(fiber.Map{"loggedIn": false})
	})

	// Token inválido: sigue 200, como anónimo
	req := httptest.NewRequest("GET", "/pagina", nil)
	req.Header.Set("Authorization", "Bearer token-roto")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, false, out["loggedIn"])
}

func TestIsLoggedIn_ResuelveUsuarioConSesionValida(t *testing.T) {
	auth := &fakeAuthenticator{user: testUser(entity.RoleGuide)}
	app := fiber.New()
	app.Get("/pagina", apihttp.IsLoggedIn(auth), func(c *fiber.Ctx) error {
		user := apihttp.CurrentUser(c)
		require.NotNil(t, user)
		return c.JSON(fiber.Map{"userId": user.ID})
	})

	req := httptest.NewRequest("GET", "/pagina", nil)
	req.Header.Set("Authorization", "Bearer token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
