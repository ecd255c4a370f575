package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Dominest API",
        "description": "Dormitory administration backend: residents, documents, notices and staff tools.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Authentication"
        },
        {
            "name": "Residents"
        },
        {
            "name": "Resident Documents"
        },
        {
            "name": "Exports"
        },
        {
            "name": "Repeat Schedules"
        },
        {
            "name": "Day Notices"
        },
        {
            "name": "Calendar"
        },
        {
            "name": "Favorites"
        },
        {
            "name": "Parcels"
        },
        {
            "name": "Todo"
        }
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Authenticate user",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": [
                    "Authentication"
                ],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/residents": {
            "get": {
                "tags": [
                    "Residents"
                ],
                "summary": "List residents of a semester",
                "parameters": [
                    {
                        "name": "semester",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Residents"
                ],
                "summary": "Register a resident",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveResidentRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "409": {
                        "description": "Duplicate student number",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Residents"
                ],
                "summary": "Delete every resident (ADMIN)",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/residents/{id}": {
            "patch": {
                "tags": [
                    "Residents"
                ],
                "summary": "Update a resident",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveResidentRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Residents"
                ],
                "summary": "Delete a resident",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/residents/upload-excel": {
            "post": {
                "tags": [
                    "Residents"
                ],
                "summary": "Import residents from an Excel roster",
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "name": "semester",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "file",
                        "in": "formData",
                        "type": "file",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/residents/export": {
            "post": {
                "tags": [
                    "Exports"
                ],
                "summary": "Export the resident roster",
                "parameters": [
                    {
                        "name": "semester",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "format",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/exports/download": {
            "get": {
                "tags": [
                    "Exports"
                ],
                "summary": "Download an exported roster",
                "produces": [
                    "application/octet-stream"
                ],
                "parameters": [
                    {
                        "name": "token",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File"
                    },
                    "403": {
                        "description": "Invalid or expired token",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/residents/pdf": {
            "get": {
                "tags": [
                    "Resident Documents"
                ],
                "summary": "List document presence per resident",
                "parameters": [
                    {
                        "name": "semester",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Resident Documents"
                ],
                "summary": "Upload many resident documents",
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "name": "semester",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "pdfType",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "pdfs",
                        "in": "formData",
                        "type": "file",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/residents/{id}/pdf": {
            "get": {
                "tags": [
                    "Resident Documents"
                ],
                "summary": "Read a resident document",
                "produces": [
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "pdfType",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "PDF"
                    },
                    "404": {
                        "description": "Not stored",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Resident Documents"
                ],
                "summary": "Upload one resident document",
                "consumes": [
                    "multipart/form-data"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "pdfType",
                        "in": "query",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "pdf",
                        "in": "formData",
                        "type": "file",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/repeat-schedule": {
            "post": {
                "tags": [
                    "Repeat Schedules"
                ],
                "summary": "Create a repeat schedule",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateRepeatScheduleRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "400": {
                        "description": "Invalid range or recurrence",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "500": {
                        "description": "Rolled back",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/repeat-schedule/{id}/regenerate": {
            "post": {
                "tags": [
                    "Repeat Schedules"
                ],
                "summary": "Re-expand a repeat schedule",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/all-repeat-schedule": {
            "get": {
                "tags": [
                    "Repeat Schedules"
                ],
                "summary": "List repeat schedules",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/detail/{repeatScheduleId}": {
            "get": {
                "tags": [
                    "Repeat Schedules"
                ],
                "summary": "Repeat schedule with generated dates",
                "parameters": [
                    {
                        "name": "repeatScheduleId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/day-notices": {
            "get": {
                "tags": [
                    "Day Notices"
                ],
                "summary": "Notices of one day",
                "parameters": [
                    {
                        "name": "date",
                        "in": "query",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "post": {
                "tags": [
                    "Day Notices"
                ],
                "summary": "Create a day notice",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateDayNoticeRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/day-notices/{id}": {
            "delete": {
                "tags": [
                    "Day Notices"
                ],
                "summary": "Delete a day notice",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/calendar/month": {
            "get": {
                "tags": [
                    "Calendar"
                ],
                "summary": "Days of a month that carry notices",
                "parameters": [
                    {
                        "name": "year",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "name": "month",
                        "in": "query",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/favorites": {
            "get": {
                "tags": [
                    "Favorites"
                ],
                "summary": "Categories favorited by the current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/favorites/{categoryId}": {
            "post": {
                "tags": [
                    "Favorites"
                ],
                "summary": "Toggle a category favorite",
                "parameters": [
                    {
                        "name": "categoryId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/undelivered-parcel-posts": {
            "post": {
                "tags": [
                    "Parcels"
                ],
                "summary": "Create an undelivered parcel post",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreateParcelPostRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/undelivered-parcel-posts/{postId}": {
            "get": {
                "tags": [
                    "Parcels"
                ],
                "summary": "Post with its parcels",
                "parameters": [
                    {
                        "name": "postId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/undelivered-parcel-posts/{postId}/parcels": {
            "post": {
                "tags": [
                    "Parcels"
                ],
                "summary": "Register a parcel",
                "parameters": [
                    {
                        "name": "postId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveParcelRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/undelivered-parcel-posts/{postId}/parcels/{id}": {
            "patch": {
                "tags": [
                    "Parcels"
                ],
                "summary": "Update a parcel",
                "parameters": [
                    {
                        "name": "postId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveParcelRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Parcels"
                ],
                "summary": "Delete a parcel",
                "parameters": [
                    {
                        "name": "postId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/todo/save": {
            "post": {
                "tags": [
                    "Todo"
                ],
                "summary": "Save a todo",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SaveTodoRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/todo/{todoId}/check": {
            "put": {
                "tags": [
                    "Todo"
                ],
                "summary": "Check or uncheck a todo",
                "parameters": [
                    {
                        "name": "todoId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CheckTodoRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/todo/list": {
            "get": {
                "tags": [
                    "Todo"
                ],
                "summary": "List todos, unchecked first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/todo/delete/{todoId}": {
            "delete": {
                "tags": [
                    "Todo"
                ],
                "summary": "Delete a todo",
                "parameters": [
                    {
                        "name": "todoId",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/todo/user-name": {
            "get": {
                "tags": [
                    "Todo"
                ],
                "summary": "Names of every staff account",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            },
            "required": [
                "email",
                "password"
            ]
        },
        "SaveResidentRequest": {
            "type": "object",
            "properties": {
                "residenceSemester": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "gender": {
                    "type": "string",
                    "enum": [
                        "M",
                        "F"
                    ]
                },
                "studentId": {
                    "type": "string"
                },
                "major": {
                    "type": "string"
                },
                "grade": {
                    "type": "string"
                },
                "phoneNumber": {
                    "type": "string"
                },
                "roomNumber": {
                    "type": "string"
                }
            },
            "required": [
                "residenceSemester",
                "name",
                "gender",
                "studentId",
                "roomNumber"
            ]
        },
        "CreateRepeatScheduleRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "recurrenceKind": {
                    "type": "string",
                    "enum": [
                        "WEEKLY",
                        "MONTHLY"
                    ]
                },
                "weekdays": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "monthDays": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "startDate": {
                    "type": "string"
                },
                "endDate": {
                    "type": "string"
                }
            },
            "required": [
                "title",
                "recurrenceKind",
                "startDate",
                "endDate"
            ]
        },
        "CreateDayNoticeRequest": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                }
            },
            "required": [
                "date",
                "title"
            ]
        },
        "CreateParcelPostRequest": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                }
            },
            "required": [
                "title"
            ]
        },
        "SaveParcelRequest": {
            "type": "object",
            "properties": {
                "recipientName": {
                    "type": "string"
                },
                "recipientPhoneNum": {
                    "type": "string"
                },
                "instruction": {
                    "type": "string"
                },
                "processState": {
                    "type": "string",
                    "enum": [
                        "PENDING",
                        "MESSAGE_SENT",
                        "PHONE_CALLED",
                        "RETURNED",
                        "DISCARDED"
                    ]
                }
            },
            "required": [
                "recipientName"
            ]
        },
        "SaveTodoRequest": {
            "type": "object",
            "properties": {
                "task": {
                    "type": "string"
                },
                "receiveRequest": {
                    "type": "string"
                }
            },
            "required": [
                "task"
            ]
        },
        "CheckTodoRequest": {
            "type": "object",
            "properties": {
                "checkYn": {
                    "type": "boolean"
                }
            },
            "required": [
                "checkYn"
            ]
        },
        "UploadFailure": {
            "type": "object",
            "properties": {
                "index": {
                    "type": "integer"
                },
                "key": {
                    "type": "string"
                },
                "reason": {
                    "type": "string",
                    "enum": [
                        "TARGET_NOT_FOUND",
                        "MALFORMED_INPUT",
                        "STORAGE_WRITE_FAILED",
                        "DUPLICATE_TARGET",
                        "PERSIST_FAILED"
                    ]
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "UploadBatchResult": {
            "type": "object",
            "properties": {
                "total": {
                    "type": "integer"
                },
                "success_count": {
                    "type": "integer"
                },
                "failures": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/UploadFailure"
                    }
                }
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total_count": {
                    "type": "integer"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string"
                },
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "pagination": {
                    "$ref": "#/definitions/Pagination"
                },
                "meta": {
                    "type": "object"
                }
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
