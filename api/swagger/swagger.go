package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Themes API",
        "description": "Administrative API for cross-curricular course theme settings and entries",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Themes", "description": "Cross-curricular theme catalog"},
        {"name": "SubThemes", "description": "Sub-theme catalog"},
        {"name": "ThemeSettings", "description": "Per year-term theme activation"},
        {"name": "SubThemeSettings", "description": "Per year-term sub-theme flags"},
        {"name": "Entries", "description": "Course entries against enabled sub-themes"},
        {"name": "Copy", "description": "Year-term copy operations"},
        {"name": "Exports", "description": "CSV and PDF downloads"}
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
        "/themes": {
            "get": {
                "tags": ["Themes"],
                "summary": "List themes",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "sort_order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Themes"],
                "summary": "Create theme",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateThemeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate theme code"}
                }
            }
        },
        "/themes/{id}": {
            "get": {
                "tags": ["Themes"],
                "summary": "Get theme with sub-themes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Themes"],
                "summary": "Update theme",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateThemeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Themes"],
                "summary": "Delete theme without sub-themes",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Theme still has sub-themes"}
                }
            }
        },
        "/themes/{id}/sub-themes": {
            "get": {
                "tags": ["SubThemes"],
                "summary": "List sub-themes of a theme",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sub-themes": {
            "post": {
                "tags": ["SubThemes"],
                "summary": "Create sub-theme",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubThemeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate sub-theme code"}
                }
            }
        },
        "/sub-themes/{id}": {
            "get": {
                "tags": ["SubThemes"],
                "summary": "Get sub-theme",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["SubThemes"],
                "summary": "Update sub-theme",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubThemeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["SubThemes"],
                "summary": "Delete sub-theme without entries",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Sub-theme still has course entries"}
                }
            }
        },
        "/sub-themes/{id}/courses": {
            "get": {
                "tags": ["Entries"],
                "summary": "Courses with entries against a sub-theme",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_term", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/theme-settings": {
            "get": {
                "tags": ["ThemeSettings"],
                "summary": "List theme settings for a year-term",
                "parameters": [
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_term", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["ThemeSettings"],
                "summary": "Activate a theme for a year-term",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateThemeSettingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Theme already configured for the year-term"}
                }
            }
        },
        "/theme-settings/overview": {
            "get": {
                "tags": ["ThemeSettings"],
                "summary": "Year-term overview",
                "parameters": [
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_term", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/theme-settings/{id}": {
            "get": {
                "tags": ["ThemeSettings"],
                "summary": "Get theme setting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["ThemeSettings"],
                "summary": "Update theme setting flags",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateThemeSettingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["ThemeSettings"],
                "summary": "Delete theme setting and its sub-theme settings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/sub-theme-settings/{id}": {
            "get": {
                "tags": ["SubThemeSettings"],
                "summary": "Get sub-theme setting",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["SubThemeSettings"],
                "summary": "Toggle sub-theme for a year-term",
                "description": "The id is tried as a setting id first; with academic_year and academic_term in the body it is retried as a sub-theme id, creating the setting when missing.",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSubThemeSettingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entries": {
            "get": {
                "tags": ["Entries"],
                "summary": "List one course section's entries",
                "parameters": [
                    {"name": "subj_no", "in": "query", "required": true, "type": "string"},
                    {"name": "ps_class_nbr", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_term", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Entries"],
                "summary": "Create course entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEntryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Sub-theme not enabled for the year-term"}
                }
            }
        },
        "/entries/batch": {
            "post": {
                "tags": ["Entries"],
                "summary": "Batch create course entries",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/CreateEntryRequest"}}}
                ],
                "responses": {
                    "200": {"description": "Per-item outcomes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entries/form": {
            "get": {
                "tags": ["Entries"],
                "summary": "Course form data",
                "parameters": [
                    {"name": "subj_no", "in": "query", "required": true, "type": "string"},
                    {"name": "ps_class_nbr", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_term", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entries/exists": {
            "get": {
                "tags": ["Entries"],
                "summary": "Check whether a course has entries",
                "parameters": [
                    {"name": "subj_no", "in": "query", "required": true, "type": "string"},
                    {"name": "ps_class_nbr", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_term", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/entries/delete-by-key": {
            "post": {
                "tags": ["Entries"],
                "summary": "Delete entry by natural key",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteEntryByKeyRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/entries/{id}": {
            "get": {
                "tags": ["Entries"],
                "summary": "Get course entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Entries"],
                "summary": "Update course entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEntryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Another sub-theme is already most relevant"}
                }
            },
            "delete": {
                "tags": ["Entries"],
                "summary": "Delete course entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/copy/settings": {
            "post": {
                "tags": ["Copy"],
                "summary": "Copy year-term settings",
                "description": "Replaces the target year-term's theme and sub-theme settings with the source year-term's.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopySettingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Copy counts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/copy/entries": {
            "post": {
                "tags": ["Copy"],
                "summary": "Copy one course section's entries",
                "description": "Replaces the course's target year-term entries with the source year-term's, skipping sub-themes disabled in the target.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CopyEntriesRequest"}}
                ],
                "responses": {
                    "200": {"description": "Copy counts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/year-term": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export year-term entries",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "academic_year", "in": "query", "required": true, "type": "string"},
                    {"name": "academic_term", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "No theme settings for the year-term"}
                }
            }
        },
        "/exports/courses": {
            "post": {
                "tags": ["Exports"],
                "summary": "Export filtered courses",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RosterFilter"}}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "No matching courses"}
                }
            }
        }
    },
    "definitions": {
        "Theme": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "theme_code": {"type": "string"},
                "theme_name": {"type": "string"},
                "theme_short_name": {"type": "string"},
                "theme_english_name": {"type": "string"},
                "chinese_link": {"type": "string"},
                "english_link": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "SubTheme": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "theme_id": {"type": "string"},
                "sub_theme_code": {"type": "string"},
                "sub_theme_name": {"type": "string"},
                "sub_theme_english_name": {"type": "string"},
                "content": {"type": "string"},
                "english_content": {"type": "string"}
            }
        },
        "CreateThemeRequest": {
            "type": "object",
            "properties": {
                "theme_code": {"type": "string"},
                "theme_name": {"type": "string"},
                "theme_short_name": {"type": "string"},
                "theme_english_name": {"type": "string"},
                "chinese_link": {"type": "string"},
                "english_link": {"type": "string"}
            },
            "required": ["theme_code", "theme_name", "theme_short_name", "theme_english_name"]
        },
        "UpdateThemeRequest": {
            "type": "object",
            "properties": {
                "theme_name": {"type": "string"},
                "theme_short_name": {"type": "string"},
                "theme_english_name": {"type": "string"},
                "chinese_link": {"type": "string"},
                "english_link": {"type": "string"}
            }
        },
        "CreateSubThemeRequest": {
            "type": "object",
            "properties": {
                "theme_id": {"type": "string"},
                "sub_theme_code": {"type": "string"},
                "sub_theme_name": {"type": "string"},
                "sub_theme_english_name": {"type": "string"},
                "content": {"type": "string"},
                "english_content": {"type": "string"}
            },
            "required": ["theme_id", "sub_theme_code", "sub_theme_name", "sub_theme_english_name"]
        },
        "UpdateSubThemeRequest": {
            "type": "object",
            "properties": {
                "sub_theme_name": {"type": "string"},
                "sub_theme_english_name": {"type": "string"},
                "content": {"type": "string"},
                "english_content": {"type": "string"}
            }
        },
        "CreateThemeSettingRequest": {
            "type": "object",
            "properties": {
                "academic_year": {"type": "string"},
                "academic_term": {"type": "string"},
                "theme_code": {"type": "string"},
                "fill_in_week_enabled": {"type": "boolean"},
                "scale_max": {"type": "integer"},
                "select_most_relevant_enabled": {"type": "boolean"}
            },
            "required": ["academic_year", "academic_term", "theme_code", "scale_max"]
        },
        "UpdateThemeSettingRequest": {
            "type": "object",
            "properties": {
                "fill_in_week_enabled": {"type": "boolean"},
                "scale_max": {"type": "integer"},
                "select_most_relevant_enabled": {"type": "boolean"}
            }
        },
        "UpdateSubThemeSettingRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "academic_year": {"type": "string"},
                "academic_term": {"type": "string"}
            },
            "required": ["enabled"]
        },
        "CreateEntryRequest": {
            "type": "object",
            "properties": {
                "subj_no": {"type": "string"},
                "ps_class_nbr": {"type": "string"},
                "academic_year": {"type": "string"},
                "academic_term": {"type": "string"},
                "theme_code": {"type": "string"},
                "sub_theme_code": {"type": "string"},
                "indicator_value": {"type": "string"},
                "week_numbers": {"type": "array", "items": {"type": "integer"}},
                "is_most_relevant": {"type": "boolean"}
            },
            "required": ["subj_no", "ps_class_nbr", "academic_year", "academic_term", "theme_code", "sub_theme_code", "indicator_value"]
        },
        "UpdateEntryRequest": {
            "type": "object",
            "properties": {
                "indicator_value": {"type": "string"},
                "week_numbers": {"type": "array", "items": {"type": "integer"}},
                "is_most_relevant": {"type": "boolean"}
            }
        },
        "DeleteEntryByKeyRequest": {
            "type": "object",
            "properties": {
                "subj_no": {"type": "string"},
                "ps_class_nbr": {"type": "string"},
                "academic_year": {"type": "string"},
                "academic_term": {"type": "string"},
                "theme_code": {"type": "string"},
                "sub_theme_code": {"type": "string"}
            },
            "required": ["subj_no", "ps_class_nbr", "academic_year", "academic_term", "theme_code", "sub_theme_code"]
        },
        "CopySettingsRequest": {
            "type": "object",
            "properties": {
                "source_year": {"type": "string"},
                "source_term": {"type": "string"},
                "target_year": {"type": "string"},
                "target_term": {"type": "string"}
            },
            "required": ["source_year", "source_term", "target_year", "target_term"]
        },
        "CopyEntriesRequest": {
            "type": "object",
            "properties": {
                "subj_no": {"type": "string"},
                "ps_class_nbr": {"type": "string"},
                "source_year": {"type": "string"},
                "source_term": {"type": "string"},
                "target_year": {"type": "string"},
                "target_term": {"type": "string"}
            },
            "required": ["subj_no", "ps_class_nbr", "source_year", "source_term", "target_year", "target_term"]
        },
        "RosterFilter": {
            "type": "object",
            "properties": {
                "year_terms": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "academic_year": {"type": "string"},
                            "academic_term": {"type": "string"}
                        }
                    }
                },
                "dept_codes": {"type": "array", "items": {"type": "string"}},
                "subj_nos": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["year_terms"]
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
