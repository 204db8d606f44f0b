package handling

import (
	"errors"
	"net/http"
	"yelo_server/lib"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	return gecho.InternalServerError(w, gecho.Send())
}

// RespondError maps a service error onto the HTTP response envelope.
// Anything outside the known taxonomy becomes a 500 with a generic message.
func RespondError(w http.ResponseWriter, logger *gecho.Logger, err error, msg string) error {
	var validation *lib.ValidationError
	if errors.As(err, &validation) {
		return gecho.BadRequest(w,
			gecho.WithMessage("error.validation"),
			gecho.WithData(validation.Errors),
			gecho.Send(),
		)
	}

	var precondition *lib.PreconditionError
	if errors.As(err, &precondition) {
		return gecho.Conflict(w,
			gecho.WithMessage("error.preconditionFailed"),
			gecho.WithData(precondition.Message),
			gecho.Send(),
		)
	}

	var partial *lib.PartialBatchError
	if errors.As(err, &partial) {
		// 207-style partial results are the caller's responsibility; by the
		// time an unhandled PartialBatchError lands here it is a failure
		return gecho.BadRequest(w,
			gecho.WithMessage("error.partialFailure"),
			gecho.WithData(partial),
			gecho.Send(),
		)
	}

	if errors.Is(err, lib.ErrNotFound) {
		return gecho.NotFound(w, gecho.Send())
	}

	var conflict *lib.ConflictError
	if errors.As(err, &conflict) {
		return gecho.Conflict(w,
			gecho.WithMessage("error.conflict"),
			gecho.WithData(conflict.Error()),
			gecho.Send(),
		)
	}

	if errors.Is(err, lib.ErrConflict) {
		return gecho.Conflict(w,
			gecho.WithMessage("error.conflict"),
			gecho.Send(),
		)
	}

	return HandleError(err, msg, logger, w)
}
