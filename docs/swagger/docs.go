// Package swagger holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/serve.go -o docs/swagger
package swagger

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
    "paths": {
        "/sync/interval": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Sets the poll interval in minutes (5, 10, 15 or 30). Applies from the next countdown.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Set Poll Interval",
                "parameters": [
                    {
                        "description": "Interval",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/monitor.IntervalRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "integer"}}},
                    "400": {"description": "Invalid interval", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/reload": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Forces the Gmail and Sheets clients to be rebuilt before the next cycle.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Reload Credentials",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/sync/status": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns the scheduler status, poll interval, last result and comments synced today.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Sync Status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/monitor.Snapshot"}}
                }
            }
        },
        "/sync/trigger": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Starts a cycle now. Rejected while a cycle is running.",
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Trigger Sync",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "409": {"description": "Sync already running", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "monitor.IntervalRequest": {
            "type": "object",
            "properties": {
                "minutes": {"type": "integer"}
            }
        },
        "monitor.ResultView": {
            "type": "object",
            "properties": {
                "at": {"type": "string"},
                "cycle_id": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "message": {"type": "string"},
                "processed": {"type": "integer"},
                "status": {"type": "string"},
                "unmatched": {"type": "integer"}
            }
        },
        "monitor.Snapshot": {
            "type": "object",
            "properties": {
                "interval_minutes": {"type": "integer"},
                "last_result": {"$ref": "#/definitions/monitor.ResultView"},
                "last_sync": {"type": "string"},
                "status": {"type": "string"},
                "synced_today": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Dropbox Comments Sync API",
	Description:      "Controls the background sync of Dropbox comments into the song ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
