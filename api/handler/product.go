package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/commerce/api/transport"
	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/pkg/httpcontext"
	catalogUC "github.com/fastygo/commerce/usecase/catalog"
)

type ProductHandler struct {
	baseHandler
	uc *catalogUC.UseCase
}

func NewProductHandler(uc *catalogUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create product
// @Tags products
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(ctx *fasthttp.RequestCtx) {
	var req transport.CreateProductRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := h.uc.CreateProduct(stdCtx, catalogUC.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SKU:         req.SKU,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewProductView(product))
}

// @Summary List products
// @Tags products
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var status domain.ProductStatus
	if raw := string(ctx.QueryArgs().Peek("status")); raw != "" {
		parsed, err := domain.ParseProductStatus(raw)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		status = parsed
	}

	products, err := h.uc.ListProducts(stdCtx, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondList(ctx, transport.NewProductViews(products), len(products), string(status))
}

// @Summary Get product
// @Tags products
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := h.uc.GetProduct(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewProductView(product))
}

// @Summary Update product name and description
// @Tags products
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProductInfo(ctx *fasthttp.RequestCtx) {
	var req transport.UpdateProductInfoRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.apply(ctx, func(stdCtx context.Context, id string) (*domain.Product, error) {
		return h.uc.UpdateProductInfo(stdCtx, id, req.Name, req.Description)
	})
}

// @Summary Change product price
// @Tags products
// @Router /api/v1/products/{id}/price [put]
func (h *ProductHandler) UpdateProductPrice(ctx *fasthttp.RequestCtx) {
	var req transport.UpdatePriceRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.apply(ctx, func(stdCtx context.Context, id string) (*domain.Product, error) {
		return h.uc.UpdateProductPrice(stdCtx, id, req.Price)
	})
}

// @Summary Activate product
// @Tags products
// @Router /api/v1/products/{id}/activate [post]
func (h *ProductHandler) ActivateProduct(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, h.uc.ActivateProduct)
}

// @Summary Deactivate product
// @Tags products
// @Router /api/v1/products/{id}/deactivate [post]
func (h *ProductHandler) DeactivateProduct(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, h.uc.DeactivateProduct)
}

func (h *ProductHandler) apply(ctx *fasthttp.RequestCtx, fn func(context.Context, string) (*domain.Product, error)) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := fn(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewProductView(product))
}
