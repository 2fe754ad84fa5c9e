package votes

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// The closed set of vote outcomes handlers switch on. Anything the insert
// returns that is not one of these is a server fault.
var (
	// ErrDuplicateVote: the (poll, voter) pair already has a vote. An
	// expected business outcome, not a fault.
	ErrDuplicateVote = errors.New("already voted on this poll")
	// ErrInvalidReference: the poll, option, or voter the insert referenced
	// does not exist.
	ErrInvalidReference = errors.New("invalid poll or option reference")
)

// PostgreSQL SQLSTATE codes the insert can surface.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classifyInsertError translates storage errors into the outcome set above.
// The raw error is passed through for anything unrecognized so the caller
// can log it; it is never echoed to clients.
func classifyInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicateVote
		case pgForeignKeyViolation:
			return ErrInvalidReference
		}
	}
	return err
}
