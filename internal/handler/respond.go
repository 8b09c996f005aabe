package handler

import "github.com/gin-gonic/gin"

// Error kinds surfaced alongside the human-readable message so clients can
// branch without parsing message strings.
// The unauthorized kind lives in middleware/auth.go, which builds its own
// bodies; importing this package from there would cycle.
const (
	kindValidation = "validation"
	kindNotFound   = "not_found"
	kindForbidden  = "forbidden"
	kindInternal   = "internal"
)

func errBody(kind, message string) gin.H {
	return gin.H{"error": message, "kind": kind}
}
