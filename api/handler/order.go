package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/commerce/api/transport"
	"github.com/fastygo/commerce/domain"
	"github.com/fastygo/commerce/pkg/httpcontext"
	orderingUC "github.com/fastygo/commerce/usecase/ordering"
)

type OrderHandler struct {
	baseHandler
	uc *orderingUC.UseCase
}

func NewOrderHandler(uc *orderingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create order
// @Tags orders
// @Router /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(ctx *fasthttp.RequestCtx) {
	var req transport.CreateOrderRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	addr, err := domain.NewAddress(
		req.ShippingAddress.Street,
		req.ShippingAddress.City,
		req.ShippingAddress.State,
		req.ShippingAddress.ZipCode,
		req.ShippingAddress.Country,
	)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	in := orderingUC.CreateOrderInput{CustomerID: req.CustomerID, ShippingAddress: addr}
	if req.Customer != nil {
		in.Customer = &orderingUC.CustomerInput{Name: req.Customer.Name, Email: req.Customer.Email, Phone: req.Customer.Phone}
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, orderingUC.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.uc.CreateOrder(stdCtx, in)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewOrderView(order))
}

// @Summary List orders
// @Tags orders
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, ok := h.statusFilter(ctx, stdCtx)
	if !ok {
		return
	}
	orders, err := h.uc.ListOrders(stdCtx, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondList(ctx, transport.NewOrderViews(orders), len(orders), string(status))
}

// @Summary Order statistics
// @Tags orders
// @Router /api/v1/order-statistics [get]
func (h *OrderHandler) Statistics(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, ok := h.statusFilter(ctx, stdCtx)
	if !ok {
		return
	}
	stats, err := h.uc.Statistics(stdCtx, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, stats)
}

// @Summary Get order
// @Tags orders
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, http.StatusOK, h.uc.GetOrder)
}

// @Summary Price an order
// @Tags orders
// @Router /api/v1/orders/{id}/quote [get]
func (h *OrderHandler) QuoteOrder(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	quote, err := h.uc.QuoteOrder(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, quote)
}

// @Summary Set customer info
// @Tags orders
// @Router /api/v1/orders/{id}/customer [put]
func (h *OrderHandler) SetCustomerInfo(ctx *fasthttp.RequestCtx) {
	var req transport.CustomerRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.apply(ctx, http.StatusOK, func(stdCtx context.Context, id string) (*domain.Order, error) {
		return h.uc.SetCustomerInfo(stdCtx, id, orderingUC.CustomerInput{Name: req.Name, Email: req.Email, Phone: req.Phone})
	})
}

// @Summary Add item
// @Tags orders
// @Router /api/v1/orders/{id}/items [post]
func (h *OrderHandler) AddItem(ctx *fasthttp.RequestCtx) {
	var req transport.OrderItemRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.apply(ctx, http.StatusOK, func(stdCtx context.Context, id string) (*domain.Order, error) {
		return h.uc.AddItem(stdCtx, id, orderingUC.ItemInput{ProductID: req.ProductID, Quantity: req.Quantity})
	})
}

// @Summary Change item quantity
// @Tags orders
// @Router /api/v1/orders/{id}/items/{productId} [put]
func (h *OrderHandler) UpdateItemQuantity(ctx *fasthttp.RequestCtx) {
	var req transport.UpdateQuantityRequest
	if !h.decode(ctx, &req) {
		return
	}
	productID := pathParam(ctx, "productId")
	h.apply(ctx, http.StatusOK, func(stdCtx context.Context, id string) (*domain.Order, error) {
		return h.uc.UpdateItemQuantity(stdCtx, id, productID, req.Quantity)
	})
}

// @Summary Remove item
// @Tags orders
// @Router /api/v1/orders/{id}/items/{productId} [delete]
func (h *OrderHandler) RemoveItem(ctx *fasthttp.RequestCtx) {
	productID := pathParam(ctx, "productId")
	h.apply(ctx, http.StatusOK, func(stdCtx context.Context, id string) (*domain.Order, error) {
		return h.uc.RemoveItem(stdCtx, id, productID)
	})
}

// @Summary Submit order
// @Tags orders
// @Router /api/v1/orders/{id}/submit [post]
func (h *OrderHandler) SubmitOrder(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, http.StatusOK, h.uc.SubmitOrder)
}

// @Router /api/v1/orders/{id}/confirm [post]
func (h *OrderHandler) ConfirmOrder(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, http.StatusOK, h.uc.ConfirmOrder)
}

// @Router /api/v1/orders/{id}/process [post]
func (h *OrderHandler) StartProcessing(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, http.StatusOK, h.uc.StartProcessing)
}

// @Router /api/v1/orders/{id}/ship [post]
func (h *OrderHandler) ShipOrder(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, http.StatusOK, h.uc.ShipOrder)
}

// @Router /api/v1/orders/{id}/deliver [post]
func (h *OrderHandler) DeliverOrder(ctx *fasthttp.RequestCtx) {
	h.apply(ctx, http.StatusOK, h.uc.DeliverOrder)
}

// @Summary Cancel order
// @Tags orders
// @Router /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(ctx *fasthttp.RequestCtx) {
	var req transport.CancelOrderRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.apply(ctx, http.StatusOK, func(stdCtx context.Context, id string) (*domain.Order, error) {
		return h.uc.CancelOrder(stdCtx, id, req.Reason)
	})
}

func (h *OrderHandler) apply(ctx *fasthttp.RequestCtx, status int, fn func(context.Context, string) (*domain.Order, error)) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, err := fn(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, status, transport.NewOrderView(order))
}

func (h *OrderHandler) statusFilter(ctx *fasthttp.RequestCtx, stdCtx context.Context) (domain.OrderStatus, bool) {
	raw := string(ctx.QueryArgs().Peek("status"))
	if raw == "" {
		return "", true
	}
	status, err := domain.ParseOrderStatus(raw)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return "", false
	}
	return status, true
}
