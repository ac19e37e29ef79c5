package api

// OpenAPI minimal en JSON para Swagger.
const openAPISpec = `{
  "openapi": "3.0.0",
  "info": {
    "title": "SKU Service API",
    "version": "1.0.0"
  },
  "paths": {
    "/health": {
      "get": {
        "summary": "Health check",
        "responses": {
          "200": {
            "description": "Service is healthy",
            "content": {
              "application/json": {
                "schema": { "$ref": "#/components/schemas/HealthResponse" }
              }
            }
          }
        }
      }
    },
    "/v1/skus/import": {
      "post": {
        "summary": "Upsert a batch of skus atomically",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": { "$ref": "#/components/schemas/ImportRequest" }
            }
          }
        },
        "responses": {
          "200": {
            "description": "Batch applied",
            "content": {
              "application/json": {
                "schema": { "$ref": "#/components/schemas/ImportResult" }
              }
            }
          },
          "400": { "$ref": "#/components/responses/InvalidInput" },
          "500": { "$ref": "#/components/responses/Internal" }
        }
      }
    },
    "/v1/skus/{skuId}": {
      "get": {
        "summary": "Get sku by id",
        "parameters": [
          { "name": "skuId", "in": "path", "required": true, "schema": { "type": "integer", "format": "int64", "minimum": 0 } }
        ],
        "responses": {
          "200": {
            "description": "Sku found",
            "content": {
              "application/json": {
                "schema": { "$ref": "#/components/schemas/Sku" }
              }
            }
          },
          "400": { "$ref": "#/components/responses/InvalidInput" },
          "404": { "$ref": "#/components/responses/NotFound" },
          "500": { "$ref": "#/components/responses/Internal" }
        }
      }
    },
    "/v1/warehouses/{warehouseId}/skus": {
      "get": {
        "summary": "List skus stored in a warehouse",
        "parameters": [
          { "name": "warehouseId", "in": "path", "required": true, "schema": { "type": "integer", "format": "int64", "minimum": 0 } }
        ],
        "responses": {
          "200": {
            "description": "Skus in the warehouse, possibly empty",
            "content": {
              "application/json": {
                "schema": { "$ref": "#/components/schemas/SkuList" }
              }
            }
          },
          "400": { "$ref": "#/components/responses/InvalidInput" },
          "500": { "$ref": "#/components/responses/Internal" }
        }
      }
    },
    "/v1/items/{itemId}/skus": {
      "get": {
        "summary": "List skus of an item",
        "parameters": [
          { "name": "itemId", "in": "path", "required": true, "schema": { "type": "integer", "format": "int64", "minimum": 0 } }
        ],
        "responses": {
          "200": {
            "description": "Skus of the item, possibly empty",
            "content": {
              "application/json": {
                "schema": { "$ref": "#/components/schemas/SkuList" }
              }
            }
          },
          "400": { "$ref": "#/components/responses/InvalidInput" },
          "500": { "$ref": "#/components/responses/Internal" }
        }
      }
    }
  },
  "components": {
    "responses": {
      "InvalidInput": {
        "description": "Malformed request",
        "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ErrorResponse" } } }
      },
      "NotFound": {
        "description": "Sku not found",
        "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ErrorResponse" } } }
      },
      "Internal": {
        "description": "Storage failure",
        "content": { "application/json": { "schema": { "$ref": "#/components/schemas/ErrorResponse" } } }
      }
    },
    "schemas": {
      "HealthResponse": {
        "type": "object",
        "properties": {
          "status": { "type": "string" }
        }
      },
      "Money": {
        "type": "object",
        "required": ["currencyCode"],
        "properties": {
          "currencyCode": { "type": "string" },
          "units": { "type": "integer", "format": "int64" },
          "nanos": { "type": "integer", "format": "int32" }
        }
      },
      "Timestamp": {
        "type": "object",
        "properties": {
          "seconds": { "type": "integer", "format": "int64" },
          "nanos": { "type": "integer", "format": "int32" }
        }
      },
      "Sku": {
        "type": "object",
        "required": ["skuId", "itemId", "countryCode"],
        "properties": {
          "skuId": { "type": "integer", "format": "int64" },
          "warehouseId": { "type": "integer", "format": "int64" },
          "itemId": { "type": "integer", "format": "int64" },
          "amount": { "type": "integer", "format": "int32" },
          "countryCode": { "type": "string" },
          "availability": {
            "type": "string",
            "enum": ["READY_TO_SHIP", "MADE_TO_ORDER", "OPEN_BOX", "USED", "REFURBISHED"]
          },
          "basePrice": { "$ref": "#/components/schemas/Money" },
          "lastUpdated": { "$ref": "#/components/schemas/Timestamp" }
        }
      },
      "ImportRequest": {
        "type": "object",
        "properties": {
          "skus": { "type": "array", "items": { "$ref": "#/components/schemas/Sku" } }
        }
      },
      "ImportResult": {
        "type": "object",
        "properties": {
          "success": { "type": "boolean" },
          "message": { "type": "string" }
        }
      },
      "SkuList": {
        "type": "object",
        "properties": {
          "skus": { "type": "array", "items": { "$ref": "#/components/schemas/Sku" } }
        }
      },
      "ErrorResponse": {
        "type": "object",
        "properties": {
          "error": {
            "type": "object",
            "properties": {
              "code": { "type": "string", "enum": ["NOT_FOUND", "INVALID_INPUT", "INTERNAL"] },
              "message": { "type": "string" }
            }
          }
        }
      }
    }
  }
}`
