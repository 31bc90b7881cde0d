// Package web embeds the static chat page served at the site root.
package web

import _ "embed"

//go:embed static/index.html
var indexHTML []byte

// IndexHTML returns the chat page.
func IndexHTML() []byte {
	return indexHTML
}
