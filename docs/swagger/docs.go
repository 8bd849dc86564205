// Package swagger serves the OpenAPI description of the HTTP API.
// Regenerate with: swag init -g cmd/wozamali-server/main.go -o docs/swagger
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
        "/health": {
            "get": {
                "description": "Reports UP when every dependency (postgres, redis) answers",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Check system health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/materials": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Material"],
                "summary": "List catalog materials",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/materials/{id}": {
            "put": {
                "description": "The new rate applies to settlements that start after the update",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Material"],
                "summary": "Create or update a material",
                "parameters": [
                    {"type": "string", "description": "Material ID", "name": "id", "in": "path", "required": true},
                    {"description": "Material", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.UpsertMaterialRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/collections": {
            "post": {
                "description": "Stores a pending collection; resubmitting identical content returns the pending one",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Collection"],
                "summary": "Submit a collection",
                "parameters": [
                    {"description": "Collection", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.SubmitCollectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "duplicate of a pending collection", "schema": {"$ref": "#/definitions/response.Response"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/collections/quote": {
            "post": {
                "description": "Prices line items against the live catalog without storing anything",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Collection"],
                "summary": "Preview a settlement",
                "parameters": [
                    {"description": "Line items", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.QuoteRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/collections/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Collection"],
                "summary": "Get a collection",
                "parameters": [
                    {"type": "string", "description": "Collection ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/collections/{id}/approve": {
            "post": {
                "description": "Settles against the rates in effect now, credits the wallet and queues the fund contribution",
                "produces": ["application/json"],
                "tags": ["Collection"],
                "summary": "Approve and settle a collection",
                "parameters": [
                    {"type": "string", "description": "Collection ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Approver", "name": "X-Admin-ID", "in": "header"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/collections/{id}/reject": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Collection"],
                "summary": "Reject a collection",
                "parameters": [
                    {"type": "string", "description": "Collection ID", "name": "id", "in": "path", "required": true},
                    {"description": "Reason", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.RejectCollectionRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/customers/{id}/collections": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Customer"],
                "summary": "List a customer's collections",
                "parameters": [
                    {"type": "string", "description": "Customer ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/customers/{id}/wallet": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Customer"],
                "summary": "Get a customer's wallet",
                "parameters": [
                    {"type": "string", "description": "Customer ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/v1/fund/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Fund"],
                "summary": "Green Scholar Fund totals",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "msg": {"type": "string"},
                "data": {}
            }
        },
        "request.LineItemRequest": {
            "type": "object",
            "required": ["material_id"],
            "properties": {
                "material_id": {"type": "string"},
                "kilograms": {"type": "string", "example": "2.50"},
                "contamination_percent": {"type": "string", "example": "0"},
                "notes": {"type": "string"}
            }
        },
        "request.GeoPointRequest": {
            "type": "object",
            "properties": {
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "request.SubmitCollectionRequest": {
            "type": "object",
            "required": ["customer_id", "collector_id", "items"],
            "properties": {
                "customer_id": {"type": "string"},
                "collector_id": {"type": "string"},
                "address_id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/request.LineItemRequest"}},
                "photo_refs": {"type": "array", "items": {"type": "string"}},
                "location": {"$ref": "#/definitions/request.GeoPointRequest"}
            }
        },
        "request.QuoteRequest": {
            "type": "object",
            "properties": {
                "customer_id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/request.LineItemRequest"}}
            }
        },
        "request.RejectCollectionRequest": {
            "type": "object",
            "required": ["reason"],
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "request.UpsertMaterialRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string", "enum": ["aluminum", "pet", "other"]},
                "rate_per_kg": {"type": "string"},
                "co2_per_kg": {"type": "string"},
                "water_l_per_kg": {"type": "string"},
                "landfill_l_per_kg": {"type": "string"},
                "points_per_rand": {"type": "string"},
                "active": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Woza Mali Settlement API",
	Description:      "Recycling collection submission, settlement and Green Scholar Fund reporting.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
