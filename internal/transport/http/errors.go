package httptransport

import (
	"net/http"

	"tracker-gateway/internal/transport/httpjson"
	dErrors "tracker-gateway/pkg/domain-errors"
)

// statusOf maps domain error codes onto HTTP status codes. Login denial
// codes all collapse to 401 so the response does not reveal which check
// failed beyond the code itself.
func statusOf(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeInvalidGrant:
		// RFC 6749 §5.2: token endpoint failures are 400.
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized,
		dErrors.CodeIdentityTokenMissing,
		dErrors.CodeEmailNotVerified,
		dErrors.CodeInvalidDomain,
		dErrors.CodeNoAccount:
		return http.StatusUnauthorized
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError translates a domain error into the uniform JSON envelope.
// Internal errors never leak their message to the caller.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	description := err.Error()
	if code == dErrors.CodeInternal {
		description = "internal error"
	}
	httpjson.WriteError(w, statusOf(code), string(code), description)
}
