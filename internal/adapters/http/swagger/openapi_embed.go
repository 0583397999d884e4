package swagger

import _ "embed"

// OpenAPI holds the portal's API description, served at /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
