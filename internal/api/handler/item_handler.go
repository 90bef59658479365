package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lostfound/board-api/internal/api/metrics"
	"github.com/lostfound/board-api/internal/core/domain"
	"github.com/lostfound/board-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /items without creating duplicates.
const HeaderIdempotencyKey = "Idempotency-Key"

type ItemHandler struct {
	itemService ports.ItemService
}

func NewItemHandler(itemService ports.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// List returns unresolved items, newest first.
//
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        status    query     string  false  "lost or found"
// @Param        category  query     string  false  "Item category"
// @Param        search    query     string  false  "Case-insensitive text over title, description and address"
// @Success      200       {array}   domain.Item
// @Failure      400       {object}  api.errorResponse
// @Router       /items [get]
func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.itemService.List(c.Request().Context(), ports.ListItemsInput{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return err
	}

	metrics.ItemSearchResults.Observe(float64(len(items)))
	return c.JSON(http.StatusOK, nonNil(items))
}

// Get returns a single item, resolved or not.
//
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  domain.Item
// @Failure      404  {object}  api.errorResponse
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	item, err := h.itemService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create posts a new report owned by the caller.
//
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Retry key"
// @Param        body             body      createItemRequest  true   "Item report"
// @Success      201              {object}  domain.Item
// @Failure      400              {object}  api.errorResponse
// @Failure      401              {object}  api.errorResponse
// @Failure      409              {object}  api.errorResponse  "Same Idempotency-Key still in progress"
// @Router       /items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	item, err := h.itemService.Create(c.Request().Context(), identity, toCreateInput(req, key))
	if err != nil {
		return err
	}

	metrics.ItemsCreatedTotal.WithLabelValues(string(item.Status), string(item.Category)).Inc()
	return c.JSON(http.StatusCreated, item)
}

// Update changes an item owned by the caller.
//
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Item ID"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  domain.Item
// @Failure      400   {object}  api.errorResponse
// @Failure      401   {object}  api.errorResponse
// @Failure      404   {object}  api.errorResponse
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.itemService.Update(c.Request().Context(), c.Param("id"), identity, toUpdateInput(req))
	if err != nil {
		countDenied("update", err)
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes an item owned by the caller.
//
// @Summary      Delete an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.itemService.Delete(c.Request().Context(), c.Param("id"), identity); err != nil {
		countDenied("delete", err)
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "item removed"})
}

// Resolve marks an item owned by the caller as reunited.
//
// @Summary      Resolve an item
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Item ID"
// @Success      200  {object}  domain.Item
// @Failure      401  {object}  api.errorResponse
// @Failure      404  {object}  api.errorResponse
// @Router       /items/{id}/resolve [patch]
func (h *ItemHandler) Resolve(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	item, err := h.itemService.Resolve(c.Request().Context(), c.Param("id"), identity)
	if err != nil {
		countDenied("resolve", err)
		return err
	}

	metrics.ItemsResolvedTotal.Inc()
	return c.JSON(http.StatusOK, item)
}

// MyItems lists every item the caller owns, including resolved ones.
//
// @Summary      My items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Item
// @Failure      401  {object}  api.errorResponse
// @Router       /items/user/my-items [get]
func (h *ItemHandler) MyItems(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	items, err := h.itemService.MyItems(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

func countDenied(operation string, err error) {
	if errors.Is(err, domain.ErrForbidden) {
		metrics.ItemMutationsDeniedTotal.WithLabelValues(operation).Inc()
	}
}

// nonNil makes empty results render as [] rather than null.
func nonNil(items []*domain.Item) []*domain.Item {
	if items == nil {
		return []*domain.Item{}
	}
	return items
}
