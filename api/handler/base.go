package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/commerce/api/transport"
	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/pkg/httpcontext"
	appLogger "github.com/fastygo/commerce/pkg/logger"
)

const codeInvalidPayload = "INVALID_PAYLOAD"

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondList(ctx *fasthttp.RequestCtx, data interface{}, count int, statusFilter string) {
	h.respondJSON(ctx, http.StatusOK, transport.NewList(data, count, statusFilter))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, code := mapError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		appLogger.WithRequestID(stdCtx, h.logger).Error("request failed", zap.String("path", string(ctx.Path())), zap.Error(err))
		message = "internal error"
	}
	h.respondJSON(ctx, status, transport.NewError(string(code), message, nil))
}

// decode reads the JSON body into dst. Malformed money and similar value
// errors keep their domain code; anything else is a generic payload error.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		if code := domain.CodeOf(err); code != domain.ErrCodeInternal {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(code), err.Error(), nil))
			return false
		}
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(codeInvalidPayload, "invalid payload", nil))
		return false
	}
	return true
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

// mapError turns the error kind into an HTTP status. Unknown errors are 500.
func mapError(err error) (int, domain.ErrorCode) {
	code := domain.CodeOf(err)
	switch code.Kind() {
	case domain.KindValidation:
		return http.StatusBadRequest, code
	case domain.KindNotFound:
		return http.StatusNotFound, code
	case domain.KindLifecycle, domain.KindConflict:
		return http.StatusConflict, code
	case domain.KindBusiness:
		return http.StatusUnprocessableEntity, code
	default:
		return http.StatusInternalServerError, domain.ErrCodeInternal
	}
}
