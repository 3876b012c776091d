package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "School timetable scheduling and validation engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Timetable sessions, generation and publishing"},
        {"name": "Availability", "description": "Teacher weekly availability templates"}
    ],
    "paths": {
        "/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the working timetable with its validation report",
                "parameters": [
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Schedule config not found"}
                }
            }
        },
        "/timetables/slots": {
            "put": {
                "tags": ["Timetables"],
                "summary": "Place or update a lesson in a grid cell",
                "parameters": [
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlaceSlotRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or non-schedulable cell"}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Remove every unlocked slot",
                "parameters": [
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/slots/{slotId}": {
            "delete": {
                "tags": ["Timetables"],
                "summary": "Remove one slot",
                "parameters": [
                    {"name": "slotId", "in": "path", "type": "string", "required": true},
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/slots/{slotId}/lock": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Toggle the lock flag on one slot",
                "parameters": [
                    {"name": "slotId", "in": "path", "type": "string", "required": true},
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Slot not found"}
                }
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Rebuild the timetable, preserving locked slots",
                "parameters": [
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/publish": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Publish the timetable when it has no hard conflicts",
                "parameters": [
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Unresolved conflicts"}
                }
            }
        },
        "/timetables/published": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Get the published timetable",
                "parameters": [
                    {"name": "gradeId", "in": "query", "type": "string", "required": true},
                    {"name": "sectionId", "in": "query", "type": "string", "required": true},
                    {"name": "termId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Timetable not published"}
                }
            }
        },
        "/teachers/{teacherId}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get a teacher's weekly availability template",
                "parameters": [
                    {"name": "teacherId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Availability"],
                "summary": "Replace a teacher's weekly availability template",
                "parameters": [
                    {"name": "teacherId", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertAvailabilityRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "404": {"description": "Teacher not found"}
                }
            }
        }
    },
    "definitions": {
        "PlaceSlotRequest": {
            "type": "object",
            "required": ["dayOfWeek", "periodNumber", "subjectId", "teacherId"],
            "properties": {
                "dayOfWeek": {"type": "string", "example": "MONDAY"},
                "periodNumber": {"type": "number", "example": 1},
                "subjectId": {"type": "string"},
                "teacherId": {"type": "string"},
                "roomId": {"type": "string"},
                "locked": {"type": "boolean"},
                "doubleLesson": {"type": "boolean"}
            }
        },
        "UpsertAvailabilityRequest": {
            "type": "object",
            "properties": {
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AvailabilitySlot"}
                },
                "preferences": {"$ref": "#/definitions/TeacherPreferences"}
            }
        },
        "AvailabilitySlot": {
            "type": "object",
            "required": ["dayOfWeek", "startTime", "endTime", "status"],
            "properties": {
                "dayOfWeek": {"type": "string", "example": "MONDAY"},
                "startTime": {"type": "string", "example": "08:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "status": {"type": "string", "enum": ["AVAILABLE", "PREFERRED", "AVOID", "UNAVAILABLE"]}
            }
        },
        "TeacherPreferences": {
            "type": "object",
            "properties": {
                "maxPeriodsPerDay": {"type": "integer", "example": 6},
                "maxPeriodsPerWeek": {"type": "integer", "example": 30},
                "preferredBreakMinutes": {"type": "integer"},
                "preferConsecutiveClasses": {"type": "boolean"},
                "avoidFirstPeriod": {"type": "boolean"},
                "avoidLastPeriod": {"type": "boolean"},
                "notes": {"type": "string"}
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
                "pagination": {"type": "object"},
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
