package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Registration API",
        "description": "Course scheduling core: recurring schedule builder, makeup overlays, room availability",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Recurring schedule builder and effective schedules"},
        {"name": "Makeup", "description": "Week-specific makeup and cancellation overlays"},
        {"name": "Rooms", "description": "Room availability for the slot editor"},
        {"name": "Attendance", "description": "Derived week attendance"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/classes/{id}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Effective schedule for one week",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedule"],
                "summary": "Submit a recurring schedule draft",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/schedule/draft": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Open or edit a recurring schedule draft",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BuilderDraftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export the effective week schedule",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "query", "type": "integer", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Document"}
                }
            }
        },
        "/classes/{id}/makeup/draft": {
            "post": {
                "tags": ["Makeup"],
                "summary": "Open or edit a makeup/cancellation draft",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OverlayDraftRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/makeup": {
            "post": {
                "tags": ["Makeup"],
                "summary": "Save a makeup/cancellation draft",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveOverlayRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Stale draft", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes/{id}/attendance/week": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Derived week attendance for one student",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "week", "in": "query", "type": "integer", "required": true},
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rooms/availability": {
            "get": {
                "tags": ["Rooms"],
                "summary": "Room availability at a timetable coordinate",
                "parameters": [
                    {"name": "week", "in": "query", "type": "integer"},
                    {"name": "day", "in": "query", "type": "integer", "required": true},
                    {"name": "period", "in": "query", "type": "integer", "required": true},
                    {"name": "classId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "BuilderDraftRequest": {
            "type": "object",
            "required": ["op"],
            "properties": {
                "op": {"type": "string", "enum": ["open", "add_week", "remove_week", "add_slot", "remove_slot"]},
                "draftId": {"type": "string"},
                "week": {"type": "integer"},
                "slot": {"$ref": "#/definitions/PatternSlotPayload"}
            }
        },
        "PatternSlotPayload": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "period": {"type": "integer"},
                "room": {"type": "string"},
                "mode": {"type": "string", "enum": ["ONLINE", "OFFLINE"]}
            }
        },
        "SubmitScheduleRequest": {
            "type": "object",
            "required": ["draftId"],
            "properties": {
                "draftId": {"type": "string"}
            }
        },
        "OverlayDraftRequest": {
            "type": "object",
            "required": ["op"],
            "properties": {
                "op": {"type": "string", "enum": ["open", "add_makeup", "cancel", "restore", "remove_makeup"]},
                "draftId": {"type": "string"},
                "week": {"type": "integer"},
                "day": {"type": "integer"},
                "period": {"type": "integer"},
                "room": {"type": "string"},
                "mode": {"type": "string", "enum": ["ONLINE", "OFFLINE"]}
            }
        },
        "SaveOverlayRequest": {
            "type": "object",
            "required": ["draftId"],
            "properties": {
                "draftId": {"type": "string"}
            }
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
