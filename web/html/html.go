package html

import (
	"embed"
)

//go:embed *.html css
var HTML embed.FS
