// Package appfs embeds the static files shipped with the binaries:
// database migrations and email templates.
package appfs

import "embed"

//go:embed migrations templates templates/email/_base.*
var FS embed.FS
