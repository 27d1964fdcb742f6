package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Complaints API",
        "description": "Student complaint submission with AI-assisted triage",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Sessions", "description": "Portal sessions and view state"},
        {"name": "Complaints", "description": "Complaint submission, listing and export"}
    ],
    "paths": {
        "/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Start a portal session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Session state",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown or expired session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/view": {
            "put": {
                "tags": ["Sessions"],
                "summary": "Switch between the student and admin views",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetViewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid view", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/notifications": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Recent submission notifications",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/complaints": {
            "get": {
                "tags": ["Complaints"],
                "summary": "List analyzed complaints, newest first",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "priority", "in": "query", "type": "string", "enum": ["High", "Medium", "Low"]},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Complaints"],
                "summary": "Submit a complaint for analysis",
                "description": "Classifies the complaint and prepends it to the session's list. One submission per session may run at a time.",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitComplaintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid form", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "A submission is already in flight", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Quota exceeded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Analysis failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/complaints/{complaintId}": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Complaint detail",
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "complaintId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions/{sessionId}/complaints/export": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Download the complaint list",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "sessionId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Complaints"],
                "summary": "Suggested departments and priority levels",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "StudentDetails": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "class": {"type": "string"},
                "division": {"type": "string"},
                "rollNo": {"type": "string"}
            },
            "required": ["name", "class", "division", "rollNo"]
        },
        "ImageAttachment": {
            "type": "object",
            "properties": {
                "base64": {"type": "string"},
                "mimeType": {"type": "string"}
            },
            "required": ["base64", "mimeType"]
        },
        "SubmitComplaintRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "studentDetails": {"$ref": "#/definitions/StudentDetails"},
                "image": {"$ref": "#/definitions/ImageAttachment"}
            },
            "required": ["text", "studentDetails"]
        },
        "SetViewRequest": {
            "type": "object",
            "properties": {
                "view": {"type": "string", "enum": ["student", "admin"]}
            },
            "required": ["view"]
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
