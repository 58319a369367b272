// Package docs registra la especificación OpenAPI que sirve /swagger/*.
// Regenerar con: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/medications": {
            "get": {"tags": ["medications"], "summary": "Listar medicamentos", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}},
            "post": {"tags": ["medications"], "summary": "Registrar medicamento", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}, "401": {"description": "unauthorized"}}}
        },
        "/medications/{medicationID}": {
            "get": {"tags": ["medications"], "summary": "Ver medicamento", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "not found"}}},
            "put": {"tags": ["medications"], "summary": "Reemplazar medicamento", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}, "404": {"description": "not found"}}},
            "delete": {"tags": ["medications"], "summary": "Borrar medicamento y su historial", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "not found"}}}
        },
        "/medications/{medicationID}/supply": {
            "patch": {"tags": ["medications"], "summary": "Actualizar stock", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "invalid input"}, "404": {"description": "not found"}}}
        },
        "/medications/{medicationID}/refill": {
            "post": {"tags": ["medications"], "summary": "Registrar recarga", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "total supply unknown"}, "404": {"description": "not found"}, "409": {"description": "supply already full"}}}
        },
        "/dose-history": {
            "get": {"tags": ["dose-history"], "summary": "Listar historial de tomas", "parameters": [{"type": "string", "name": "startDate", "in": "query"}, {"type": "string", "name": "endDate", "in": "query"}, {"type": "string", "name": "medicationId", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "fechas inválidas"}}},
            "post": {"tags": ["dose-history"], "summary": "Registrar toma", "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input / unknown medication"}}}
        },
        "/dose-history/today": {
            "get": {"tags": ["dose-history"], "summary": "Tomas de hoy", "responses": {"200": {"description": "OK"}}}
        },
        "/dose-history/medication/{medicationID}": {
            "delete": {"tags": ["dose-history"], "summary": "Borrar historial de un medicamento", "parameters": [{"type": "string", "name": "medicationID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/stats": {
            "get": {"tags": ["stats"], "summary": "Estadísticas de adherencia", "parameters": [{"type": "integer", "name": "days", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "days inválido"}}}
        },
        "/refills": {
            "get": {"tags": ["refills"], "summary": "Estado de stock", "responses": {"200": {"description": "OK"}}}
        },
        "/calendar": {
            "get": {"tags": ["calendar"], "summary": "Calendario mensual", "parameters": [{"type": "string", "name": "month", "in": "query"}, {"type": "string", "name": "selected", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "month/selected inválido"}}}
        },
        "/history": {
            "get": {"tags": ["history"], "summary": "Historial agrupado por día", "parameters": [{"enum": ["all", "taken", "missed"], "type": "string", "name": "filter", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/reminders/today": {
            "get": {"tags": ["reminders"], "summary": "Plan de hoy", "responses": {"200": {"description": "OK"}}}
        },
        "/reminders/plan": {
            "get": {"tags": ["reminders"], "summary": "Plan de notificaciones", "responses": {"200": {"description": "OK"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "medremind API",
	Description:      "Medicamentos, historial de tomas y vistas derivadas (hoy, adherencia, calendario, recargas).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
