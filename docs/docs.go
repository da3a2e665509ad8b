// Package docs publica la especificación OpenAPI de la API.
// swagger.json se regenera desde las anotaciones de los handlers con go generate ./cmd/api.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

// FileName nombre del archivo de especificación dentro de este directorio.
const FileName = "swagger.json"

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos registrados en swag.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Parts Ledger API",
	Description:      "Ledger de partes e inventario.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
