// Package docs holds the swagger document served under /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/posts": {
            "get": {
                "tags": ["Posts"],
                "summary": "List posts",
                "description": "Returns every post in store order",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/entities.Post"}
                        }
                    },
                    "500": {
                        "description": "Post store is unreadable",
                        "schema": {"$ref": "#/definitions/http.MessageResponse"}
                    }
                }
            },
            "post": {
                "tags": ["Posts"],
                "summary": "Create a post",
                "description": "Assigns the next id (highest existing id plus one)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "post",
                        "description": "Post fields",
                        "required": true,
                        "schema": {"$ref": "#/definitions/entities.PostInput"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/entities.Post"}
                    },
                    "400": {
                        "description": "Invalid request format",
                        "schema": {"$ref": "#/definitions/http.MessageResponse"}
                    },
                    "422": {
                        "description": "All fields are required.",
                        "schema": {"$ref": "#/definitions/ports.ValidationErrorResponse"}
                    }
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "tags": ["Posts"],
                "summary": "Get a post",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/entities.Post"}
                    },
                    "400": {
                        "description": "Invalid post ID",
                        "schema": {"$ref": "#/definitions/http.MessageResponse"}
                    },
                    "404": {
                        "description": "Post not found",
                        "schema": {"$ref": "#/definitions/http.MessageResponse"}
                    }
                }
            },
            "put": {
                "tags": ["Posts"],
                "summary": "Update a post",
                "description": "Replaces author, title and content; the id never changes",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {
                        "in": "body",
                        "name": "post",
                        "description": "Post fields",
                        "required": true,
                        "schema": {"$ref": "#/definitions/entities.PostInput"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/entities.Post"}
                    },
                    "404": {
                        "description": "Post not found",
                        "schema": {"$ref": "#/definitions/http.MessageResponse"}
                    },
                    "422": {
                        "description": "All fields are required.",
                        "schema": {"$ref": "#/definitions/ports.ValidationErrorResponse"}
                    }
                }
            },
            "delete": {
                "tags": ["Posts"],
                "summary": "Delete a post",
                "description": "Succeeds whether or not the post existed",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Invalid post ID",
                        "schema": {"$ref": "#/definitions/http.MessageResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "entities.Post": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 1},
                "author": {"type": "string", "example": "Ada"},
                "title": {"type": "string", "example": "Hello"},
                "content": {"type": "string", "example": "First post"}
            }
        },
        "entities.PostInput": {
            "type": "object",
            "required": ["author", "title", "content"],
            "properties": {
                "author": {"type": "string"},
                "title": {"type": "string"},
                "content": {"type": "string"}
            }
        },
        "http.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "ports.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "All fields are required."},
                "id": {"type": "integer"},
                "post": {"$ref": "#/definitions/entities.PostInput"},
                "fields": {
                    "type": "object",
                    "additionalProperties": {"type": "string"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5001",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "BlogMaster API",
	Description:      "Blog post store API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
