// Package docs registers the OpenAPI description served under /swagger.
// It mirrors the handler annotations; `swag init -g cmd/server/main.go`
// regenerates it.
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
        "/admin/repair-base-urls": {
            "post": {
                "description": "Re-discover every subscription and move posts stored under identities no subscription resolves to anymore",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Repair feed base URLs",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.repairResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.repairResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.repairResponse"}}
                }
            }
        },
        "/ingest": {
            "post": {
                "description": "Run one synchronous ingestion pass. With an owner header only that owner's subscriptions are processed.",
                "produces": ["application/json"],
                "tags": ["ingest"],
                "summary": "Run ingestion",
                "parameters": [
                    {"type": "integer", "description": "Owner ID", "name": "X-Owner-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ingestResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ingestResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ingestResponse"}}
                }
            }
        },
        "/posts": {
            "get": {
                "description": "Get the owner's posts, newest published first, 20 per page",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts",
                "parameters": [
                    {"type": "integer", "description": "Owner ID", "name": "X-Owner-ID", "in": "header", "required": true},
                    {"type": "integer", "description": "Page number (1-based)", "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.PostPage"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/posts/since": {
            "get": {
                "description": "Get the owner's posts stored after a cutoff",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "List posts since",
                "parameters": [
                    {"type": "integer", "description": "Owner ID", "name": "X-Owner-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Cutoff (RFC 3339)", "name": "ts", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/service.PostItem"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/read-logs": {
            "post": {
                "description": "Record that the owner opened a post",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["read-logs"],
                "summary": "Log a read",
                "parameters": [
                    {"type": "integer", "description": "Owner ID", "name": "X-Owner-ID", "in": "header", "required": true},
                    {"description": "Read log request", "name": "readLog", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.readLogRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.readLogResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/subscriptions": {
            "get": {
                "description": "Get the owner's subscriptions, oldest first",
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "List subscriptions",
                "parameters": [
                    {"type": "integer", "description": "Owner ID", "name": "X-Owner-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.subscriptionResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "description": "Validate the URL, reject duplicates and discover the site favicon",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "Create a subscription",
                "parameters": [
                    {"type": "integer", "description": "Owner ID", "name": "X-Owner-ID", "in": "header", "required": true},
                    {"description": "Subscription creation request", "name": "subscription", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.subscriptionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.subscriptionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/subscriptions/{id}": {
            "delete": {
                "description": "Delete a subscription and the posts no other subscription shares",
                "produces": ["application/json"],
                "tags": ["subscriptions"],
                "summary": "Delete a subscription",
                "parameters": [
                    {"type": "integer", "description": "Owner ID", "name": "X-Owner-ID", "in": "header", "required": true},
                    {"type": "integer", "description": "Subscription ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deleteSubscriptionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.deleteSubscriptionResponse": {
            "type": "object",
            "properties": {"postsRemoved": {"type": "integer"}}
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.feedResultResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "feedBaseUrl": {"type": "string"},
                "feedUrl": {"type": "string"},
                "newPosts": {"type": "integer"},
                "previewTitles": {"type": "array", "items": {"type": "string"}},
                "seedUrl": {"type": "string"},
                "skippedEntries": {"type": "integer"},
                "status": {"type": "string"},
                "subscriptionId": {"type": "string"}
            }
        },
        "handler.ingestResponse": {
            "type": "object",
            "properties": {
                "feeds": {"type": "array", "items": {"$ref": "#/definitions/handler.feedResultResponse"}},
                "message": {"type": "string"},
                "runId": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "handler.readLogRequest": {
            "type": "object",
            "properties": {"postUrl": {"type": "string"}}
        },
        "handler.readLogResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "postUrl": {"type": "string"},
                "readAt": {"type": "string"}
            }
        },
        "handler.repairResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "report": {"$ref": "#/definitions/service.RepairReport"},
                "success": {"type": "boolean"}
            }
        },
        "handler.subscriptionRequest": {
            "type": "object",
            "properties": {"url": {"type": "string"}}
        },
        "handler.subscriptionResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "faviconUrl": {"type": "string"},
                "feedBaseUrl": {"type": "string"},
                "id": {"type": "string"},
                "updatedAt": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "service.PostItem": {
            "type": "object",
            "properties": {
                "baseUrl": {"type": "string"},
                "content": {"type": "string"},
                "faviconUrl": {"type": "string"},
                "id": {"type": "string"},
                "imageUrl": {"type": "string"},
                "postDate": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "service.PostPage": {
            "type": "object",
            "properties": {
                "hasMore": {"type": "boolean"},
                "posts": {"type": "array", "items": {"$ref": "#/definitions/service.PostItem"}}
            }
        },
        "service.RepairReport": {
            "type": "object",
            "properties": {
                "discoveryFailed": {"type": "integer"},
                "identitiesMerged": {"type": "integer"},
                "postsDropped": {"type": "integer"},
                "postsMoved": {"type": "integer"},
                "subscriptions": {"type": "integer"},
                "unresolved": {"type": "integer"},
                "updated": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "feedpulse API",
	Description:      "Periodic RSS/Atom ingestion service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
