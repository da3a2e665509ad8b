package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/parts-ledger/internal/interfaces/http"
)

func TestMountDocs_SirveUIYEspecificacion(t *testing.T) {
	app := fiber.New()
	require.True(t, apphttp.MountDocs(app, "../../../docs/swagger.json", "Parts Ledger API"))

	resp := get(t, app, "/docs")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, app, "/docs/swagger.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/api/inventory/issue")
}

func TestMountDocs_SinArchivoNoMonta(t *testing.T) {
	app := fiber.New()
	assert.False(t, apphttp.MountDocs(app, "no-existe/swagger.json", "Parts Ledger API"))
	assert.Equal(t, http.StatusNotFound, get(t, app, "/docs").StatusCode)
}
