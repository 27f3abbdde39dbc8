package main

// @title Inventory Ledger API
// @version 1.0
// @description Products, stock adjustments and sales with full observability (logging, tracing, metrics)

// @contact.name API Support
// @contact.url http://github.com/tair/inventory-ledger

// @license.name MIT

// @host localhost:8082
// @BasePath /

// @tag.name Products
// @tag.description Product catalogue and stock endpoints

// @tag.name Sales
// @tag.description Sale registration and history endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
