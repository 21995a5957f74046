package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Harborview Back-Office API",
        "description": "Hotel back-office management API: staff, guests, inventory, billing and reservations.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Users", "description": "Back-office account administration"},
        {"name": "Employees", "description": "Employee roster"},
        {"name": "Guests", "description": "Guest directory"},
        {"name": "Suppliers", "description": "Supplier directory"},
        {"name": "Inventory", "description": "Inventory stock"},
        {"name": "Purchase Orders", "description": "Supplier purchase orders"},
        {"name": "Invoices", "description": "Guest billing"},
        {"name": "Reservations", "description": "Room reservation calendar"},
        {"name": "Attendance", "description": "Employee attendance records"},
        {"name": "Dashboard", "description": "Operational summary"},
        {"name": "Exports", "description": "Asynchronous CSV/PDF exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange a refresh token for a new token pair",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Revoke the current refresh token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current account profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Change current account password",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ValidationErrors"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ValidationErrors"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Create employee",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ValidationErrors"}}
                }
            }
        },
        "/employees/{id}/photo": {
            "post": {
                "tags": ["Employees"],
                "summary": "Upload employee photo",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "photo", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/inventory/{id}/status": {
            "post": {
                "tags": ["Inventory"],
                "summary": "Change inventory item status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/purchase-orders/{id}/status": {
            "post": {
                "tags": ["Purchase Orders"],
                "summary": "Transition purchase order status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Transition not allowed", "schema": {"$ref": "#/definitions/ValidationErrors"}}
                }
            }
        },
        "/invoices/{id}/pdf": {
            "get": {
                "tags": ["Invoices"],
                "summary": "Download invoice as PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "PDF document"}}
            }
        },
        "/reservations/{id}/status": {
            "post": {
                "tags": ["Reservations"],
                "summary": "Transition reservation status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Operational summary counters",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Request an asynchronous export",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RequestExportPayload"}}
                ],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/{id}/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Signed download link for a completed export",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "ChangeStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            },
            "required": ["status"]
        },
        "RequestExportPayload": {
            "type": "object",
            "properties": {
                "resource": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["resource", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ValidationErrors": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {"type": "string"}
                    }
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
