package main

import (
	// Embedded zone database so DOCUMENT_TIMEZONE resolves in minimal images.
	_ "time/tzdata"

	"github.com/sangkips/cactus-admin-api/internal/cmd"
)

func main() {
	cmd.Execute()
}
