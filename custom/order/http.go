package order

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/romana/rlog"
	"gorm.io/gorm"

	"restaurant_api/constants"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

type HandlerContext struct {
	db *gorm.DB
}

type OrderItemRequest struct {
	MenuItemId          uint    `json:"menu_item_id"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`
}

type CreateOrderRequest struct {
	CustomerId *uint              `json:"customer_id,omitempty"`
	TableId    *uint              `json:"table_id,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	Items      []OrderItemRequest `json:"items"`
}

// UpdateOrderRequest patches only the fields present in the payload. A
// non-nil Items replaces the order's whole item set.
type UpdateOrderRequest struct {
	CustomerId    *uint               `json:"customer_id,omitempty"`
	TableId       *uint               `json:"table_id,omitempty"`
	Status        *string             `json:"status,omitempty"`
	PaymentStatus *string             `json:"payment_status,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
	Items         *[]OrderItemRequest `json:"items,omitempty"`
}

func (ctx *HandlerContext) InitialHandlerContext(db *gorm.DB) {
	ctx.db = db
}

// ListOrders returns a page of orders with customer, table and item
// relations loaded for display.
func (ctx *HandlerContext) ListOrders(w http.ResponseWriter, r *http.Request) {
	query := ctx.db.Model(&model.Order{})
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := r.URL.Query().Get("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if rawTableId := r.URL.Query().Get("table_id"); rawTableId != "" {
		tableId, err := strconv.ParseUint(rawTableId, 10, 32)
		if err != nil {
			ve := util.ValidationErrors{}
			ve.Add("table_id", "The table id must be an integer.")
			util.WriteValidationErrors(w, ve)
			return
		}
		query = query.Where("table_id = ?", uint(tableId))
	}

	var total int64
	if errDb := query.Count(&total).Error; errDb != nil {
		rlog.Error("Count orders failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	page := util.FetchPageParam(r)
	orders := make([]model.Order, 0)
	errDb := query.
		Preload("Customer").Preload("Table").Preload("OrderItems.MenuItem").
		Order("created_at DESC").
		Limit(constants.PAGE_SIZE).Offset((page - 1) * constants.PAGE_SIZE).
		Find(&orders).Error
	if errDb != nil {
		rlog.Error("List orders failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, util.NewPaginated(orders, page, total))
}

// CreateOrder creates the order and its items atomically: the order row,
// every item row with a price snapshot, the recomputed total and the table
// occupation either all commit or all roll back.
func (ctx *HandlerContext) CreateOrder(w http.ResponseWriter, r *http.Request) {
	req := CreateOrderRequest{}
	err := util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	ve := util.ValidationErrors{}
	if len(req.Items) == 0 {
		ve.Add("items", "The items field is required.")
	}
	for i, item := range req.Items {
		if item.MenuItemId == 0 {
			ve.Add(itemField(i, "menu_item_id"), "The menu item id field is required.")
		}
		if item.Quantity < 1 {
			ve.Add(itemField(i, "quantity"), "The quantity must be at least 1.")
		}
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	newOrder := model.Order{
		CustomerId:    req.CustomerId,
		TableId:       req.TableId,
		Notes:         req.Notes,
		Status:        constants.ORDER_PENDING,
		PaymentStatus: constants.PAYMENT_UNPAID,
	}
	errDb := ctx.db.Transaction(func(tx *gorm.DB) error {
		if req.CustomerId != nil {
			var customerInfo model.Customer
			if errTx := tx.Where("id = ?", *req.CustomerId).First(&customerInfo).Error; errTx != nil {
				return &fieldError{Field: "customer_id", Message: "The selected customer id is invalid."}
			}
			newOrder.Customer = &customerInfo
		}
		if req.TableId != nil {
			var tableInfo model.Table
			if errTx := tx.Where("id = ?", *req.TableId).First(&tableInfo).Error; errTx != nil {
				return &fieldError{Field: "table_id", Message: "The selected table id is invalid."}
			}
			newOrder.Table = &tableInfo
		}
		if errTx := tx.Omit("Customer", "Table").Create(&newOrder).Error; errTx != nil {
			return errTx
		}
		if errTx := createOrderItems(tx, &newOrder, req.Items); errTx != nil {
			return errTx
		}
		newOrder.TotalAmount = computeTotal(newOrder.OrderItems)
		if errTx := tx.Model(&model.Order{}).Where("id = ?", newOrder.ID).
			Update("total_amount", newOrder.TotalAmount).Error; errTx != nil {
			return errTx
		}
		if req.TableId != nil {
			if errTx := occupyTable(tx, *req.TableId); errTx != nil {
				return errTx
			}
			newOrder.Table.Status = constants.TABLE_OCCUPIED
		}
		return nil
	})
	if errDb != nil {
		var fe *fieldError
		if errors.As(errDb, &fe) {
			ve.Add(fe.Field, fe.Message)
			util.WriteValidationErrors(w, ve)
			return
		}
		rlog.Error("Create order failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	rlog.Infof("Order %d created with %d items, total %s", newOrder.ID, len(newOrder.OrderItems), newOrder.TotalAmount.StringFixed(2))
	util.WriteJSON(w, http.StatusCreated, newOrder)
}

// QueryOrder fetches one order with all display relations
func (ctx *HandlerContext) QueryOrder(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	orderInfo, errDb := ctx.fetchOrder(id)
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.ORDER_NOT_FOUND)
		return
	}

	util.WriteJSON(w, http.StatusOK, orderInfo)
}

// UpdateOrder patches scalar fields and, when items are provided, replaces
// the whole item set (delete-all then recreate) with a total recompute, all
// in one transaction. Completing or cancelling an order frees its table.
func (ctx *HandlerContext) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var orderInfo model.Order
	errDb := ctx.db.Where("id = ?", id).First(&orderInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.ORDER_NOT_FOUND)
		return
	}

	req := UpdateOrderRequest{}
	err = util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload. Status transitions are deliberately unrestricted:
	// any known status may replace any other.
	ve := util.ValidationErrors{}
	if req.Status != nil && !slices.Contains(constants.ORDER_STATUSES, *req.Status) {
		ve.Add("status", "The selected status is invalid.")
	}
	if req.PaymentStatus != nil && !slices.Contains(constants.PAYMENT_STATUSES, *req.PaymentStatus) {
		ve.Add("payment_status", "The selected payment status is invalid.")
	}
	if req.Items != nil {
		if len(*req.Items) == 0 {
			ve.Add("items", "The items field must not be empty.")
		}
		for i, item := range *req.Items {
			if item.MenuItemId == 0 {
				ve.Add(itemField(i, "menu_item_id"), "The menu item id field is required.")
			}
			if item.Quantity < 1 {
				ve.Add(itemField(i, "quantity"), "The quantity must be at least 1.")
			}
		}
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	errDb = ctx.db.Transaction(func(tx *gorm.DB) error {
		if req.CustomerId != nil {
			var customerInfo model.Customer
			if errTx := tx.Where("id = ?", *req.CustomerId).First(&customerInfo).Error; errTx != nil {
				return &fieldError{Field: "customer_id", Message: "The selected customer id is invalid."}
			}
			orderInfo.CustomerId = req.CustomerId
		}
		if req.TableId != nil {
			var tableInfo model.Table
			if errTx := tx.Where("id = ?", *req.TableId).First(&tableInfo).Error; errTx != nil {
				return &fieldError{Field: "table_id", Message: "The selected table id is invalid."}
			}
			orderInfo.TableId = req.TableId
		}
		if req.Status != nil {
			orderInfo.Status = *req.Status
		}
		if req.PaymentStatus != nil {
			orderInfo.PaymentStatus = *req.PaymentStatus
		}
		if req.Notes != nil {
			orderInfo.Notes = req.Notes
		}

		if req.Items != nil {
			if errTx := tx.Where("order_id = ?", orderInfo.ID).Delete(&model.OrderItem{}).Error; errTx != nil {
				return errTx
			}
			orderInfo.OrderItems = nil
			if errTx := createOrderItems(tx, &orderInfo, *req.Items); errTx != nil {
				return errTx
			}
			orderInfo.TotalAmount = computeTotal(orderInfo.OrderItems)
		}

		if errTx := tx.Omit("Customer", "Table", "OrderItems").Save(&orderInfo).Error; errTx != nil {
			return errTx
		}

		if req.Status != nil && orderInfo.TableId != nil &&
			(*req.Status == constants.ORDER_COMPLETED || *req.Status == constants.ORDER_CANCELLED) {
			return freeTable(tx, *orderInfo.TableId)
		}
		return nil
	})
	if errDb != nil {
		var fe *fieldError
		if errors.As(errDb, &fe) {
			ve.Add(fe.Field, fe.Message)
			util.WriteValidationErrors(w, ve)
			return
		}
		rlog.Error("Update order failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	updated, errDb := ctx.fetchOrder(orderInfo.ID)
	if errDb != nil {
		rlog.Error("Reload order failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, updated)
}

// DeleteOrder removes the order and every item it owns, freeing its table.
func (ctx *HandlerContext) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var orderInfo model.Order
	errDb := ctx.db.Where("id = ?", id).First(&orderInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.ORDER_NOT_FOUND)
		return
	}

	errDb = ctx.db.Transaction(func(tx *gorm.DB) error {
		if orderInfo.TableId != nil {
			if errTx := freeTable(tx, *orderInfo.TableId); errTx != nil {
				return errTx
			}
		}
		if errTx := tx.Where("order_id = ?", orderInfo.ID).Delete(&model.OrderItem{}).Error; errTx != nil {
			return errTx
		}
		return tx.Delete(&model.Order{}, orderInfo.ID).Error
	})
	if errDb != nil {
		rlog.Error("Delete order failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteMessage(w, http.StatusOK, "Order deleted successfully")
}

func (ctx *HandlerContext) fetchOrder(id uint) (*model.Order, error) {
	var orderInfo model.Order
	err := ctx.db.
		Preload("Customer").Preload("Table").Preload("OrderItems.MenuItem").
		Where("id = ?", id).First(&orderInfo).Error
	if err != nil {
		return nil, err
	}
	return &orderInfo, nil
}

func itemField(index int, name string) string {
	return "items." + strconv.Itoa(index) + "." + name
}
