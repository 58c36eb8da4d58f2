package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/almoxarifado-api/internal/domain/entity"
	apphttp "github.com/jportela/almoxarifado-api/internal/interfaces/http"
	pkgjwt "github.com/jportela/almoxarifado-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "almoxarifado-test"
	testTokenTTL  = time.Hour
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireMinRole para autorizar por jerarquía
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(minRole string) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireMinRole(minRole),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testTokenTTL, testUserID, testCompanyID, role)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireMinRole
// ──────────────────────────────────────────────────────────────────────────────

// El rol exacto alcanza la jerarquía mínima.
func TestRequireMinRole_AlmacenistaAccede(t *testing.T) {
	app := buildTestApp(entity.RoleAlmacenista)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAlmacenista))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "el rol exacto debe pasar")
}

// Un rol superior también pasa: la verificación es por jerarquía, no por igualdad.
func TestRequireMinRole_AdminAccedeRutaDeAlmacenista(t *testing.T) {
	app := buildTestApp(entity.RoleAlmacenista)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "un rol superior debe pasar")
}

// El rol base no alcanza rutas de bodega.
func TestRequireMinRole_FuncionarioRechazado(t *testing.T) {
	app := buildTestApp(entity.RoleAlmacenista)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleFuncionario))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el rol base no debe pasar")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "FORBIDDEN", out["code"])
}

// Un rol desconocido en el token nunca pasa.
func TestRequireMinRole_RolDesconocidoRechazado(t *testing.T) {
	app := buildTestApp(entity.RoleFuncionario)
	resp := doRequest(t, app, tokenForRole(t, "superusuario"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinTokenRechazado(t *testing.T) {
	app := buildTestApp(entity.RoleFuncionario)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin token debe ser 401")
}

func TestAuthMiddleware_TokenMalFormadoRechazado(t *testing.T) {
	app := buildTestApp(entity.RoleFuncionario)
	resp := doRequest(t, app, "Bearer no-es-un-jwt")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaIncorrectaRechazada(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", testIssuer, testTokenTTL, testUserID, testCompanyID, entity.RoleAdmin)
	require.NoError(t, err)

	app := buildTestApp(entity.RoleFuncionario)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "firma con otro secret debe ser 401")
}

func TestAuthMiddleware_CargaLocals(t *testing.T) {
	app := buildTestApp(entity.RoleGerente)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleGerente))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, entity.RoleGerente, out["role"], "el rol del token debe quedar en locals")
}
