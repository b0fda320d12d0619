package helpers

import (
	"errors"
	"log/slog"
	"math"
	"net/http"

	"riconnect/internal/domain"
)

// ErrorWriter maps service errors to envelope responses. User-facing messages for
// the errors the app shows as alerts are localized from the Accept-Language header.
type ErrorWriter struct {
	Logger     *slog.Logger
	Translator domain.Translator
	JoinLimit  int
}

// Write responds with the status and code matching err.
func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	locale := r.Header.Get("Accept-Language")
	var tooFar *domain.TooFarError

	switch {
	case errors.As(err, &tooFar):
		msg := e.localize(locale, domain.MsgTooFar, map[string]any{
			"Distance": int(math.Round(tooFar.DistanceMeters)),
			"Radius":   int(math.Round(tooFar.RadiusMeters)),
		}, err)
		WriteJSONError(w, http.StatusUnprocessableEntity, ErrCodeTooFar, msg)
	case errors.Is(err, domain.ErrJoinLimit):
		msg := e.localize(locale, domain.MsgJoinLimit, map[string]any{"Limit": e.joinLimit()}, err)
		WriteJSONError(w, http.StatusConflict, ErrCodeJoinLimit, msg)
	case errors.Is(err, domain.ErrPermissionDenied):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, e.localize(locale, domain.MsgPermissionDenied, nil, err))
	case errors.Is(err, domain.ErrInvalidFilter):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeInvalidFilter, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrInvalidResponse):
		e.log(r, err)
		WriteJSONError(w, http.StatusBadGateway, ErrCodeBadGateway, err.Error())
	default:
		e.log(r, err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
	}
}

func (e ErrorWriter) joinLimit() int {
	if e.JoinLimit > 0 {
		return e.JoinLimit
	}
	return domain.DefaultJoinLimit
}

func (e ErrorWriter) localize(locale, key string, data map[string]any, err error) string {
	if e.Translator == nil {
		return err.Error()
	}
	return e.Translator.T(locale, key, data)
}

func (e ErrorWriter) log(r *http.Request, err error) {
	if e.Logger == nil {
		return
	}
	e.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}
