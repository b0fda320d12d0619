// Package docs registers the OpenAPI description of the local RiConnect API.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger_template.json
var docTemplate string

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RiConnect local API",
	Description:      "Feeds, filters, attendance, photos, leaderboard and session endpoints of the RiConnect client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
