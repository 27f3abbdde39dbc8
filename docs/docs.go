// Package docs holds the OpenAPI document served at /swagger/. It is kept
// in step with the swag annotations on the HTTP handlers.
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
        "/api/products": {
            "get": {
                "description": "Products in insertion order. Without limit every product is returned.",
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "List products",
                "parameters": [
                    {"type": "integer", "description": "Limit", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "description": "Register a product. Names are unique after trimming.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Create a new product",
                "parameters": [
                    {"description": "Product data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProductInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/products/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Product statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Get product by ID",
                "parameters": [{"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "description": "All fields are replaced.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Replace a product",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"description": "Product data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProductInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "description": "Sales of the product are kept with a null product_id.",
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Delete a product",
                "parameters": [{"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/products/{id}/quantity": {
            "patch": {
                "description": "Adds delta (may be negative) to the quantity on hand. Fails if the result would be negative.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Products"],
                "summary": "Adjust product quantity",
                "parameters": [
                    {"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {"description": "Quantity delta", "name": "request", "in": "body", "required": true, "schema": {"type": "object", "properties": {"delta": {"type": "integer"}}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/products/{id}/sales": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sales"],
                "summary": "List sales of a product",
                "parameters": [{"type": "integer", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/sales": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sales"],
                "summary": "List sales",
                "parameters": [
                    {"type": "integer", "description": "Limit", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "description": "Records the sale and decrements stock atomically. total_value defaults to price * quantity.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sales"],
                "summary": "Register a sale",
                "parameters": [
                    {"description": "Sale data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaleInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/sales/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sales"],
                "summary": "Get sale by ID",
                "parameters": [{"type": "integer", "description": "Sale ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "description": "Stock is not reconciled. Omitting product_id detaches the sale.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sales"],
                "summary": "Replace a sale",
                "parameters": [
                    {"type": "integer", "description": "Sale ID", "name": "id", "in": "path", "required": true},
                    {"description": "Sale data", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaleInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "description": "Stock is not restored.",
                "produces": ["application/json"],
                "tags": ["Sales"],
                "summary": "Delete a sale",
                "parameters": [{"type": "integer", "description": "Sale ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"type": "string"},
                "warning": {"type": "string"},
                "field": {"type": "string"}
            }
        },
        "ProductInput": {
            "type": "object",
            "required": ["name", "price", "quantity"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"}
            }
        },
        "SaleInput": {
            "type": "object",
            "properties": {
                "product_id": {"type": "integer"},
                "quantity": {"type": "integer"},
                "total_value": {"type": "number"},
                "sold_at": {"type": "string", "format": "date-time"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8082",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventory Ledger API",
	Description:      "Products, stock adjustments and sales with full observability (logging, tracing, metrics)",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
