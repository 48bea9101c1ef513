package handler

import (
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: s}
}

// Create is the public checkout endpoint
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	receipt, err := h.orderService.CreateOrder(c.UserContext(), &req, c.IP())
	if err != nil {
		return err
	}
	return created(c, "Order placed successfully", receipt)
}

// Track lets a customer look up their order by code and phone
// GET /api/orders/track/:code?phone=
func (h *OrderHandler) Track(c *fiber.Ctx) error {
	tracking, err := h.orderService.TrackOrder(c.UserContext(), c.Params("code"), c.Query("phone"))
	if err != nil {
		return err
	}
	return ok(c, tracking)
}

// List
// GET /api/admin/orders?status=&page=&limit=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return err
	}

	result, err := h.orderService.ListOrders(c.UserContext(), repository.OrderFilter{
		Status: model.OrderStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return ok(c, result)
}

// Get
// GET /api/admin/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, order)
}

// Update edits notes and the payment/whatsapp flags
// PUT /api/admin/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.UpdateOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateOrder(c.UserContext(), id, &req, admin.ID.String())
	if err != nil {
		return err
	}
	return okMessage(c, "Order updated successfully", order)
}

// UpdateStatus
// PUT /api/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	order, err := h.orderService.UpdateStatus(c.UserContext(), id, &req, admin.ID.String())
	if err != nil {
		return err
	}
	return okMessage(c, "Order status updated", order)
}

// Delete removes the order and its items
// DELETE /api/admin/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.orderService.DeleteOrder(c.UserContext(), id, admin.ID.String()); err != nil {
		return err
	}
	return okMessage(c, "Order deleted successfully", nil)
}
