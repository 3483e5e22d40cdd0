// Package docs registers the Swagger description of the HTTP API.
// It follows the handler annotations; `swag init` regenerates it with model definitions.
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
        "/balances": {
            "get": {
                "summary": "Token balances",
                "description": "APT, stAPT and rAPT balances with USD values",
                "tags": [
                    "pages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "summary": "Dashboard",
                "description": "Balances, protocol totals and portfolio value. Mock data while no wallet is connected.",
                "tags": [
                    "pages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "summary": "Health check",
                "tags": [
                    "protocol"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/protocol/status": {
            "get": {
                "summary": "Protocol status",
                "description": "Whether the staking protocol is initialized and the connected account is registered",
                "tags": [
                    "protocol"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "502": {
                        "description": "Bad Gateway"
                    }
                }
            }
        },
        "/restaking": {
            "get": {
                "summary": "Restaking page",
                "tags": [
                    "pages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/restaking/restake": {
            "post": {
                "summary": "Restake stAPT",
                "tags": [
                    "transactions"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Amount in stAPT",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    }
                }
            }
        },
        "/restaking/unrestake": {
            "post": {
                "summary": "Unrestake rAPT",
                "tags": [
                    "transactions"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Amount in rAPT",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    }
                }
            }
        },
        "/staking": {
            "get": {
                "summary": "Staking page",
                "tags": [
                    "pages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/staking/initialize": {
            "post": {
                "summary": "Initialize staking protocol",
                "description": "Admin only. Submits mock_staking_protocol::initialize with the given seed.",
                "tags": [
                    "transactions"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Seed",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    }
                }
            }
        },
        "/staking/stake": {
            "post": {
                "summary": "Stake APT",
                "tags": [
                    "transactions"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Amount in APT",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    },
                    "409": {
                        "description": "Conflict"
                    }
                }
            }
        },
        "/staking/unstake": {
            "post": {
                "summary": "Unstake stAPT",
                "tags": [
                    "transactions"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Amount in stAPT",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "type": "object"
                        },
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request"
                    }
                }
            }
        },
        "/wallet": {
            "get": {
                "summary": "Wallet state",
                "tags": [
                    "wallet"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/wallet/connect": {
            "post": {
                "summary": "Connect wallet",
                "tags": [
                    "wallet"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "403": {
                        "description": "Forbidden"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/wallet/disconnect": {
            "post": {
                "summary": "Disconnect wallet",
                "tags": [
                    "wallet"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Service Unavailable"
                    }
                }
            }
        },
        "/wallet/generate": {
            "post": {
                "summary": "Generate new keystore",
                "description": "Generates a new ed25519 account and saves it to the configured keystore file",
                "tags": [
                    "wallet"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Conflict"
                    }
                }
            }
        },
        "/wallet/qr": {
            "get": {
                "summary": "Account address QR code",
                "tags": [
                    "wallet"
                ],
                "produces": [
                    "image/png"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "409": {
                        "description": "Conflict"
                    }
                }
            }
        },
        "/ws/dashboard": {
            "get": {
                "summary": "Live dashboard",
                "description": "Websocket sending model.StreamMessage frames on every refresh and wallet change",
                "tags": [
                    "pages"
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Restaking Dashboard API",
	Description:      "Aptos staking and restaking dashboard backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
