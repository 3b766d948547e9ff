// Package docs holds the generated OpenAPI document. Regenerate with:
//
//	swag init -g docs/swagger.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/register/passenger": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register a passenger",
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/register/driver": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register a driver",
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login with email and password",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/request-ride": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Request a new ride",
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"type": "object"}}
                }
            }
        },
        "/accept-ride/{ride_id}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Accept a requested ride",
                "parameters": [{"type": "string", "name": "ride_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/start-ride/{ride_id}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Start an accepted ride",
                "parameters": [{"type": "string", "name": "ride_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/complete-ride/{ride_id}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Complete a ride in progress",
                "parameters": [{"type": "string", "name": "ride_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/cancel-ride/{ride_id}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Cancel a ride",
                "parameters": [{"type": "string", "name": "ride_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/update-ride/{ride_id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "Update ride fields",
                "parameters": [{"type": "string", "name": "ride_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/rides/passenger/{passenger_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "List a passenger's rides",
                "parameters": [{"type": "string", "name": "passenger_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/rides/driver/{driver_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Rides"],
                "summary": "List a driver's rides",
                "parameters": [{"type": "string", "name": "driver_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        },
        "/available-drivers/{ride_type}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Drivers"],
                "summary": "List available drivers for a vehicle class",
                "parameters": [{"type": "string", "name": "ride_type", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object"}}
                }
            }
        },
        "/drivers/{driver_id}/availability": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Drivers"],
                "summary": "Set driver availability",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "driver_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"type": "object"}}
                }
            }
        },
        "/drivers/heartbeat": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Drivers"],
                "summary": "Refresh driver presence",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"type": "object"}}
                }
            }
        },
        "/ws": {
            "get": {
                "tags": ["WebSocket"],
                "summary": "WebSocket subscribe endpoint",
                "description": "Upgrades to WebSocket; send {\"type\":\"subscribe\",\"userId\":\"<uuid>\",\"userType\":\"passenger|driver\"} to receive ride events",
                "responses": {}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RideLink API",
	Description:      "Real-time ride-hailing backend: ride lifecycle operations over HTTP and live ride events over WebSocket.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
