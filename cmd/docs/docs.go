// Package docs holds the swagger document served under /swagger in non-production builds.
// Regenerate with: swag init -g cmd/ledger_backend/main.go -o cmd/docs
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
        "/currencies": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["currencies"], "summary": "List all currencies", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["currencies"], "summary": "Register a currency", "responses": {"201": {"description": "Created"}, "409": {"description": "Currency already exists"}}}
        },
        "/currencies/{currencyID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["currencies"], "summary": "Get a currency by ID or code", "parameters": [{"type": "string", "name": "currencyID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Currency not found"}}}
        },
        "/accounts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "List accounts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Create a new account", "responses": {"201": {"description": "Created"}, "409": {"description": "Account code already exists"}}}
        },
        "/accounts/tree": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get the chart of accounts", "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get an account by ID", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Account not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Update an account", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Deactivate an account", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Account already inactive"}}}
        },
        "/accounts/{accountID}/balances": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["balances"], "summary": "List the balances of an account", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{accountID}/balances/{currencyID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["balances"], "summary": "Get an account balance in one currency", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}, {"type": "integer", "name": "currencyID", "in": "path", "required": true}, {"type": "string", "name": "asOf", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/journals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["journals"], "summary": "List the books", "responses": {"200": {"description": "OK"}}}
        },
        "/journal-entries": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["journal-entries"], "summary": "List journal entries, newest first", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["journal-entries"], "summary": "Post a journal entry", "responses": {"201": {"description": "Created"}, "400": {"description": "Unbalanced or invalid entry"}, "409": {"description": "Duplicate reference"}}}
        },
        "/journal-entries/batch": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["journal-entries"], "summary": "Post several journal entries atomically", "responses": {"201": {"description": "Created"}}}
        },
        "/journal-entries/{entryID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["journal-entries"], "summary": "Get a journal entry", "parameters": [{"type": "integer", "name": "entryID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Journal entry not found"}}}
        },
        "/journal-entries/{entryID}/reverse": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["journal-entries"], "summary": "Reverse a journal entry", "parameters": [{"type": "integer", "name": "entryID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "409": {"description": "Entry already reversed"}}}
        },
        "/journal-entries/{entryID}/apply": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["balances"], "summary": "Apply the balances of a posted entry", "parameters": [{"type": "integer", "name": "entryID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/admin/balances/recompute": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Rebuild every account balance from the journal lines", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/balances/verify": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Compare account balances with the journal lines", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/balances/apply-pending": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Apply every entry whose balances were never applied", "responses": {"200": {"description": "OK"}}}
        },
        "/reports/trial-balance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Generate trial balance report", "parameters": [{"type": "integer", "name": "currencyID", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "School Ledger API",
	Description:      "Double-entry general ledger with materialized account balances.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
