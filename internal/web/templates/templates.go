// Package templates embeds the HTML templates rendered by the web server.
package templates

import "embed"

//go:embed *.html pages/*.html admin/*.html partials/*.html
var FS embed.FS
