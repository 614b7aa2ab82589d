package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Timetable API",
        "description": "Scheduling-conflict detection, free-slot suggestion and versioned timetable storage",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Versioned timetable store, clash checks and suggestions"},
        {"name": "Lock", "description": "Cooperative edit lock"},
        {"name": "Roster", "description": "Read-only lecturer and classroom lists"}
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
        "/clash_detect": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Check a candidate session for lecturer or room clashes",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClashCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verdict", "schema": {"$ref": "#/definitions/ClashCheckResponse"}}
                }
            }
        },
        "/free_slots": {
            "post": {
                "tags": ["Timetable"],
                "summary": "List free time windows for a lecturer and/or classroom",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SlotSuggestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Free slots", "schema": {"$ref": "#/definitions/SlotSuggestionResponse"}}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Fetch the timetable at the current version pointer",
                "parameters": [
                    {"name": "program", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "rollback", "in": "query", "type": "integer", "description": "1 to roll back, -1 to roll forward (admin only)"}
                ],
                "responses": {
                    "200": {"description": "Entries", "schema": {"$ref": "#/definitions/FetchTimetableResponse"}}
                }
            }
        },
        "/timetable/save": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Atomically replace a scope's timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Outcome", "schema": {"$ref": "#/definitions/SaveTimetableResponse"}}
                }
            }
        },
        "/timetable/lock": {
            "get": {
                "tags": ["Lock"],
                "summary": "Freeze timetable editing",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/timetable/release": {
            "get": {
                "tags": ["Lock"],
                "summary": "Resume timetable editing",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/timetable/check_lock": {
            "get": {
                "tags": ["Lock"],
                "summary": "Report the edit-lock state",
                "responses": {
                    "200": {"description": "Lock state"}
                }
            }
        },
        "/timetable/lecturers": {
            "get": {
                "tags": ["Roster"],
                "summary": "List lecturers",
                "responses": {
                    "200": {"description": "Lecturers"}
                }
            }
        },
        "/timetable/classes": {
            "get": {
                "tags": ["Roster"],
                "summary": "List classrooms",
                "responses": {
                    "200": {"description": "Classrooms"}
                }
            }
        }
    },
    "definitions": {
        "ClashCheckRequest": {
            "type": "object",
            "properties": {
                "entry": {"$ref": "#/definitions/ClashCheckEntry"}
            }
        },
        "ClashCheckEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "course_id": {"type": "string"},
                "lecturer_id": {"type": "string"},
                "room_id": {"type": "string"},
                "day_of_week": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "ClashCheckResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "SlotSuggestionRequest": {
            "type": "object",
            "properties": {
                "lecturer_id": {"type": "string"},
                "class": {"type": "string"}
            }
        },
        "SlotSuggestionResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "suggested_slots": {"type": "array", "items": {"$ref": "#/definitions/Slot"}},
                "message": {"type": "string"}
            }
        },
        "Slot": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "duration": {"type": "integer"}
            }
        },
        "SaveTimetableRequest": {
            "type": "object",
            "properties": {
                "program_name": {"type": "string"},
                "year": {"type": "integer"},
                "entries": {"type": "array", "items": {"$ref": "#/definitions/ClashCheckEntry"}}
            }
        },
        "SaveTimetableResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "FetchTimetableResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "entries": {"type": "array", "items": {"type": "object"}},
                "message": {"type": "string"}
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
