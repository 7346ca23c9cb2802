// Package docs holds the OpenAPI document served under /docs.
package docs

import _ "embed"

//go:embed doc.json
var SwaggerJSON []byte
