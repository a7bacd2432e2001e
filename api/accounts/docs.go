// Package accounts holds the generated Swagger document for the accounts
// service. Regenerate with:
//
//	swag init -g internal/accounts/http/router.go -o api/accounts --parseDependency
package accounts

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/accounts"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/livez": {
            "get": {
                "description": "Always 200 while the process is serving.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {
                        "description": "status, uptime, version",
                        "schema": {"$ref": "#/definitions/accountsdk.HealthResponse"}
                    }
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Checks the store connection and that a signing key is loaded.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {
                        "description": "status, uptime, version, checks",
                        "schema": {"$ref": "#/definitions/accountsdk.HealthResponse"}
                    },
                    "503": {
                        "description": "one or more checks failed",
                        "schema": {"$ref": "#/definitions/accountsdk.HealthResponse"}
                    }
                }
            }
        },
        "/users": {
            "post": {
                "description": "Creates an inactive account and emails its activation link.\nThe account cannot log in until activated.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Register",
                "parameters": [
                    {
                        "description": "email and password (6 to 128 characters)",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.CredentialsRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "account created, activation email sent"},
                    "400": {
                        "description": "invalid input or email taken",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    },
                    "500": {
                        "description": "email provider or internal failure",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    }
                }
            }
        },
        "/users/activate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Activate",
                "parameters": [
                    {
                        "description": "activation id from the email",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.ActivateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "account activated"},
                    "400": {
                        "description": "malformed body",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    },
                    "404": {
                        "description": "unknown or already used activation id",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    }
                }
            }
        },
        "/users/forgotpassword": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Password"],
                "summary": "Forgot password",
                "parameters": [
                    {
                        "description": "account email",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.ForgotPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "reset email sent"},
                    "404": {
                        "description": "no account with that email",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    },
                    "500": {
                        "description": "email provider or internal failure",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    }
                }
            }
        },
        "/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.CredentialsRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "session token",
                        "schema": {"$ref": "#/definitions/accountsdk.LoginResponse"}
                    },
                    "400": {
                        "description": "account not yet activated",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    },
                    "401": {
                        "description": "wrong email or password",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    }
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"SessionToken": []}],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Current user",
                "responses": {
                    "200": {
                        "description": "id and email",
                        "schema": {"$ref": "#/definitions/accountsdk.UserResponse"}
                    },
                    "401": {
                        "description": "missing or invalid session token",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    }
                }
            }
        },
        "/users/me/token": {
            "delete": {
                "security": [{"SessionToken": []}],
                "tags": ["Users"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "session revoked"},
                    "400": {
                        "description": "revocation failed",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    },
                    "401": {
                        "description": "missing or invalid session token",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    }
                }
            }
        },
        "/users/passwordreset": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Password"],
                "summary": "Reset password",
                "parameters": [
                    {
                        "description": "signature from the email and the new password",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/accountsdk.PasswordResetRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "password changed"},
                    "400": {
                        "description": "password too short or too long",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    },
                    "404": {
                        "description": "unknown or already used signature",
                        "schema": {"$ref": "#/definitions/httpx.APIError"}
                    }
                }
            }
        }
    },
    "definitions": {
        "accountsdk.ActivateRequest": {
            "type": "object",
            "properties": {
                "activationID": {"type": "string"}
            }
        },
        "accountsdk.CredentialsRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "a@b.com"},
                "password": {"type": "string", "example": "pw12345!"}
            }
        },
        "accountsdk.ForgotPasswordRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string", "example": "a@b.com"}
            }
        },
        "accountsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "signer": {"type": "string"},
                "store": {"type": "string"}
            }
        },
        "accountsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/accountsdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "accountsdk.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "accountsdk.PasswordResetRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "passwordResetID": {"type": "string"}
            }
        },
        "accountsdk.UserResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"}
            }
        },
        "httpx.APIError": {
            "type": "object",
            "properties": {
                "developerMessage": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "SessionToken": {
            "description": "Session token from /users/login. \"Authorization: Bearer {token}\" is accepted too.",
            "type": "apiKey",
            "name": "x-auth",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Accounts Service API",
	Description:      "User accounts with email activation, session tokens and password reset.\n\nErrors are returned as {status, message, developerMessage}.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
