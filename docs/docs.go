// Package docs registers the OpenAPI document served under /swagger.
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
    "paths": {
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Session"}}
                }
            }
        },
        "/v1/workloads": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Admins get every rostered officer, officers get their own workload.",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Officer workloads",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "206": {"description": "Partial Content", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}}
                }
            }
        },
        "/v1/officers/{officer_id}/workload": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "One officer's workload",
                "parameters": [
                    {"type": "string", "description": "Officer ID", "name": "officer_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "206": {"description": "Partial Content", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/status-changes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Restaurants whose observed formality status differs from the recorded one",
                "parameters": [
                    {"type": "string", "description": "Admin only: restrict to one officer", "name": "officer_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "206": {"description": "Partial Content", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}}
                }
            }
        },
        "/v1/compliance-summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Registered, unregistered and filer restaurants",
                "parameters": [
                    {"type": "string", "description": "Admin only: restrict to one officer", "name": "officer_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "206": {"description": "Partial Content", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}}
                }
            }
        },
        "/v1/reconciliation": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Unresolved references and normalization losses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "206": {"description": "Partial Content", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/restaurants/{id}/skip-reason": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["skip-reasons"],
                "summary": "The caller's skip reason for a restaurant",
                "parameters": [
                    {"type": "string", "description": "Restaurant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SkipReasonRecord"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Only the first reason per restaurant and officer is kept.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["skip-reasons"],
                "summary": "Record why a notice was not sent",
                "parameters": [
                    {"type": "string", "description": "Restaurant ID", "name": "id", "in": "path", "required": true},
                    {"description": "Skip reason", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.submitSkipReasonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.SkipReasonRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/skip-reasons": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["skip-reasons"],
                "summary": "The caller's skip reasons",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}},
                    "206": {"description": "Partial Content", "schema": {"$ref": "#/definitions/handlers.ReportResponse"}}
                }
            }
        },
        "/v1/restaurants/{id}/compliance-update": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "compliance_status is required only for \"Registered & Filing\" and closure_reason only when the restaurant is Closed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["compliance-updates"],
                "summary": "Record a compliance visit",
                "parameters": [
                    {"type": "string", "description": "Restaurant ID", "name": "id", "in": "path", "required": true},
                    {"description": "Visit form", "name": "update", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ComplianceUpdateInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ComplianceUpdateRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/restaurants/{id}/compliance-updates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["compliance-updates"],
                "summary": "Compliance visits to a restaurant, newest first",
                "parameters": [
                    {"type": "string", "description": "Restaurant ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.ComplianceUpdateRecord"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/v1/reports/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Admin only. The archive refresh runs in the background.",
                "produces": ["application/json"],
                "tags": ["jobs"],
                "summary": "Drop cached reports and re-archive snapshots",
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handlers.RefreshResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "handlers.ReportResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "degraded": {"type": "boolean"},
                "unavailable_tables": {"type": "array", "items": {"type": "string"}},
                "generated_at": {"type": "string"}
            }
        },
        "handlers.RefreshResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "cache_invalidated": {"type": "boolean"},
                "refresh_triggered": {"type": "boolean"}
            }
        },
        "models.ComplianceUpdateInput": {
            "type": "object",
            "properties": {
                "interview_date": {"type": "string", "example": "2025-05-30"},
                "interview_method": {"type": "string", "enum": ["Call", "In-Person", "Other (Specify)"]},
                "formality_status": {"type": "string", "enum": ["Unregistered (No record with PRA)", "Registered but Not Filing", "Registered & Filing"]},
                "compliance_status": {"type": "string", "enum": ["Active Filer", "Late Filer", "Filing with Errors", "Other (Specify)"]},
                "status_today": {"type": "string", "enum": ["Open", "Closed"]},
                "closure_reason": {"type": "string", "enum": ["Temporary Closure", "Permanent Closure", "Relocated", "Unknown"]},
                "followup_required": {"type": "boolean"},
                "followup_date": {"type": "string", "example": "2025-06-14"}
            }
        },
        "models.ComplianceUpdateRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "restaurant_id": {"type": "string"},
                "officer_email": {"type": "string"},
                "officer_id": {"type": "string"},
                "interview_date": {"type": "string"},
                "interview_method": {"type": "string"},
                "formality_status": {"type": "string"},
                "compliance_status": {"type": "string"},
                "status_today": {"type": "string"},
                "closure_reason": {"type": "string"},
                "followup_required": {"type": "boolean"},
                "followup_date": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "handlers.submitSkipReasonRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "models.Session": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "officer_id": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "models.SkipReasonRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "restaurant_id": {"type": "string"},
                "officer_email": {"type": "string"},
                "reason": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PRA Enforcement Reports API",
	Description:      "Officer workloads, status changes, skip reasons and compliance visits for restaurant notice enforcement.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
