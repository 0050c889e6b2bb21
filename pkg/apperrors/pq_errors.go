package apperrors

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Postgres error codes we translate into the taxonomy.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// WrapDBError translates Postgres constraint violations into
// ValidationErrors so handlers surface them as caller mistakes instead
// of opaque 500s. Other errors pass through unchanged.
func WrapDBError(message string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case uniqueViolation:
			return NewValidation("%s: value already exists", message)
		case foreignKeyViolation:
			return NewValidation("%s: referenced record does not exist", message)
		}
	}
	return fmt.Errorf("%s: %w", message, err)
}
