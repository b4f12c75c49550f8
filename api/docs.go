// Package api contains the swagger documentation of the API.
//
// The paths are kept in sync with the swag annotations of the handlers.
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "AGPL-3.0",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "UserID": {
            "type": "apiKey",
            "name": "X-User-ID",
            "in": "header"
        }
    },
    "security": [{"UserID": []}],
    "paths": {
        "/": {"get": {"tags": ["General"], "summary": "API root", "responses": {"200": {"description": "OK"}}}},
        "/healthz": {"get": {"tags": ["General"], "summary": "Get health", "responses": {"204": {"description": "No Content"}, "500": {"description": "Internal Server Error"}}}},
        "/version": {"get": {"tags": ["General"], "summary": "API version", "responses": {"200": {"description": "OK"}}}},
        "/v1": {"get": {"tags": ["v1"], "summary": "v1 API", "responses": {"200": {"description": "OK"}}}},
        "/v1/recurring": {
            "get": {"tags": ["Recurring Transactions"], "summary": "Get recurring transactions", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}},
            "post": {"tags": ["Recurring Transactions"], "summary": "Create recurring transaction", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        },
        "/v1/recurring/upcoming": {"get": {"tags": ["Recurring Transactions"], "summary": "Get upcoming recurring transactions", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/v1/recurring/process": {"post": {"tags": ["Recurring Transactions"], "summary": "Process due recurring transactions", "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
        "/v1/recurring/report": {"get": {"tags": ["Recurring Transactions"], "summary": "Report of active recurring transactions", "produces": ["text/plain"], "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}},
        "/v1/recurring/{id}": {
            "get": {"tags": ["Recurring Transactions"], "summary": "Get recurring transaction", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Recurring Transactions"], "summary": "Update recurring transaction", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Recurring Transactions"], "summary": "Delete recurring transaction", "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/v1/recurring/{id}/toggle": {"post": {"tags": ["Recurring Transactions"], "summary": "Toggle recurring transaction", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/v1/transactions": {
            "get": {"tags": ["Transactions"], "summary": "Get transactions", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["Transactions"], "summary": "Create transaction", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/transactions/bulk-delete": {"post": {"tags": ["Transactions"], "summary": "Delete transactions", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/v1/transactions/{id}": {
            "get": {"tags": ["Transactions"], "summary": "Get transaction", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Transactions"], "summary": "Update transaction", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Transactions"], "summary": "Delete transaction", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/v1/categories": {
            "get": {"tags": ["Categories"], "summary": "Get categories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Categories"], "summary": "Create category", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/categories/defaults": {"post": {"tags": ["Categories"], "summary": "Create default categories", "responses": {"200": {"description": "OK"}}}},
        "/v1/categories/{id}": {
            "get": {"tags": ["Categories"], "summary": "Get category", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Categories"], "summary": "Update category", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"tags": ["Categories"], "summary": "Delete category", "responses": {"204": {"description": "No Content"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/budgets": {
            "get": {"tags": ["Budgets"], "summary": "Get budgets", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Budgets"], "summary": "Create budget", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/budgets/alerts": {"get": {"tags": ["Budgets"], "summary": "Get budget alerts", "responses": {"200": {"description": "OK"}}}},
        "/v1/budgets/{id}": {
            "get": {"tags": ["Budgets"], "summary": "Get budget", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Budgets"], "summary": "Update budget", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"tags": ["Budgets"], "summary": "Delete budget", "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}
        },
        "/v1/dashboard/summary": {"get": {"tags": ["Dashboard"], "summary": "Income and expense summary", "responses": {"200": {"description": "OK"}}}},
        "/v1/dashboard/category-breakdown": {"get": {"tags": ["Dashboard"], "summary": "Amounts per category", "responses": {"200": {"description": "OK"}}}},
        "/v1/dashboard/monthly-trends": {"get": {"tags": ["Dashboard"], "summary": "Income and expenses per month", "responses": {"200": {"description": "OK"}}}},
        "/v1/dashboard/recent": {"get": {"tags": ["Dashboard"], "summary": "Recent transactions", "responses": {"200": {"description": "OK"}}}},
        "/v1/dashboard/top-categories": {"get": {"tags": ["Dashboard"], "summary": "Categories with the highest amounts", "responses": {"200": {"description": "OK"}}}},
        "/v1/dashboard/category-trends": {"get": {"tags": ["Dashboard"], "summary": "Expenses per category and month", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
