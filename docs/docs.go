// Package docs holds the swagger document of the console API.
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
        "/stages/{stageID}/schedule": {
            "get": {
                "description": "Rounds of every stage item with matches filtered by team and status. Rounds left without matches are omitted.",
                "produces": ["application/json"],
                "tags": ["schedule"],
                "summary": "Stage schedule",
                "parameters": [
                    {"type": "string", "description": "Stage ID", "name": "stageID", "in": "path", "required": true},
                    {"type": "string", "description": "Team ID", "name": "team", "in": "query"},
                    {"type": "string", "description": "all, incomplete or complete", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "schedule and notifications", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "502": {"description": "Stage items could not be fetched", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/stages/{stageID}/snapshot": {
            "post": {
                "description": "Renders the schedule with the given filter and uploads it as JSON to object storage.",
                "produces": ["application/json"],
                "tags": ["schedule"],
                "summary": "Publish stage schedule",
                "parameters": [
                    {"type": "string", "description": "Stage ID", "name": "stageID", "in": "path", "required": true},
                    {"type": "string", "description": "Team ID", "name": "team", "in": "query"},
                    {"type": "string", "description": "all, incomplete or complete", "name": "status", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Upload result", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Storage not configured", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            },
            "delete": {
                "tags": ["schedule"],
                "summary": "Remove published schedule",
                "parameters": [
                    {"type": "string", "description": "Stage ID", "name": "stageID", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "503": {"description": "Storage not configured", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/stages/{stageID}/standings": {
            "get": {
                "description": "Inputs of every stage item in backend order with their points. Only league stages are supported.",
                "produces": ["application/json"],
                "tags": ["stage-items"],
                "summary": "League standings",
                "parameters": [
                    {"type": "string", "description": "Stage ID", "name": "stageID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "standings", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Unknown stage type", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/stage-items/{stageItemID}/assignment": {
            "get": {
                "description": "Assigned teams followed by the teams still available in the stage.",
                "produces": ["application/json"],
                "tags": ["stage-items"],
                "summary": "Team assignment of a stage item",
                "parameters": [
                    {"type": "string", "description": "Stage item ID", "name": "stageItemID", "in": "path", "required": true},
                    {"type": "string", "description": "Stage ID", "name": "stageId", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "teams", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Stage item not found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Rounds already generated or a save is in progress", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/stage-items/{stageItemID}/teams": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stage-items"],
                "summary": "Replace the teams of a stage item",
                "parameters": [
                    {"type": "string", "description": "Stage item ID", "name": "stageItemID", "in": "path", "required": true},
                    {"type": "string", "description": "Stage ID", "name": "stageId", "in": "query", "required": true},
                    {"description": "Assigned team IDs", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/assignTeamsInput"}}
                ],
                "responses": {
                    "200": {"description": "Refreshed stage items", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Stage item or team not found", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "409": {"description": "Rounds already generated or a save is in progress", "schema": {"$ref": "#/definitions/errorResponse"}}
                }
            }
        },
        "/matches/{matchID}": {
            "patch": {
                "description": "Saves the scores without ending the match. With stageId the result is pushed to the stage's websocket room.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Update match scores",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"type": "string", "description": "Stage ID to notify", "name": "stageId", "in": "query"},
                    {"description": "Scores", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.MatchScoreForm"}}
                ],
                "responses": {
                    "200": {"description": "Updated match", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Validation failed", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/matches/{matchID}/end": {
            "post": {
                "description": "Saves the final scores. The match can no longer be edited afterwards.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "End a match",
                "parameters": [
                    {"type": "string", "description": "Match ID", "name": "matchID", "in": "path", "required": true},
                    {"type": "string", "description": "Stage ID to notify", "name": "stageId", "in": "query"},
                    {"description": "Final scores", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.MatchScoreForm"}}
                ],
                "responses": {
                    "200": {"description": "Ended match", "schema": {"type": "object", "additionalProperties": true}},
                    "422": {"description": "Validation failed", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/clubs/{clubID}/tournaments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Tournaments created through this console",
                "parameters": [
                    {"type": "string", "description": "Club ID", "name": "clubID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Tournaments, newest first", "schema": {"type": "object", "additionalProperties": true}}
                }
            },
            "post": {
                "description": "Ranking points default to 3/1/0 when omitted.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tournaments"],
                "summary": "Create a tournament",
                "parameters": [
                    {"type": "string", "description": "Club ID", "name": "clubID", "in": "path", "required": true},
                    {"description": "Tournament", "name": "input", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.CreateTournamentForm"}}
                ],
                "responses": {
                    "201": {"description": "Created tournament", "schema": {"type": "object", "additionalProperties": true}},
                    "409": {"description": "Another create is in progress", "schema": {"$ref": "#/definitions/errorResponse"}},
                    "422": {"description": "Validation failed", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/ws/stages/{stageID}": {
            "get": {
                "description": "Upgrades to a websocket that receives MATCH_UPDATED messages for the stage.",
                "tags": ["live"],
                "summary": "Live match updates of a stage",
                "parameters": [
                    {"type": "string", "description": "Stage ID", "name": "stageID", "in": "path", "required": true}
                ],
                "responses": {}
            }
        }
    },
    "definitions": {
        "errorResponse": {
            "type": "object",
            "properties": {"error": {}}
        },
        "assignTeamsInput": {
            "type": "object",
            "properties": {"teamIds": {"type": "array", "items": {"type": "string"}}}
        },
        "services.MatchScoreForm": {
            "type": "object",
            "properties": {
                "team1Score": {"type": "integer", "minimum": 0},
                "team2Score": {"type": "integer", "minimum": 0}
            }
        },
        "services.CreateTournamentForm": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "minLength": 3, "maxLength": 256},
                "dateRange": {
                    "type": "object",
                    "properties": {
                        "from": {"type": "string", "format": "date-time"},
                        "to": {"type": "string", "format": "date-time"}
                    }
                },
                "settings": {
                    "type": "object",
                    "properties": {
                        "rankingConfig": {
                            "type": "object",
                            "properties": {
                                "winPoints": {"type": "integer", "minimum": 0},
                                "drawPoints": {"type": "integer", "minimum": 0},
                                "lossPoints": {"type": "integer"},
                                "addScorePoints": {"type": "boolean"}
                            }
                        }
                    }
                }
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
	Title:            "Fixtures console API",
	Description:      "Schedule, standings, team assignment and match scoring for tournament stages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
