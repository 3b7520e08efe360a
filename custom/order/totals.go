package order

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restaurant_api/constants"
	"restaurant_api/model"
)

// fieldError aborts an order transaction and is reported to the caller as a
// per-field validation message instead of a server error.
type fieldError struct {
	Field   string
	Message string
}

func (e *fieldError) Error() string {
	return e.Field + ": " + e.Message
}

// computeTotal is a full recompute over the current item set. Item counts
// are small, so there is no incremental maintenance.
func computeTotal(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// createOrderItems persists one item row per request entry, snapshotting
// each menu item's current price. An unknown menu item id aborts the whole
// transaction.
func createOrderItems(tx *gorm.DB, orderInfo *model.Order, items []OrderItemRequest) error {
	for i, item := range items {
		var menuItemInfo model.MenuItem
		if errTx := tx.Where("id = ?", item.MenuItemId).First(&menuItemInfo).Error; errTx != nil {
			return &fieldError{Field: itemField(i, "menu_item_id"), Message: "The selected menu item id is invalid."}
		}
		newItem := model.OrderItem{
			OrderId:             orderInfo.ID,
			MenuItemId:          menuItemInfo.ID,
			Quantity:            item.Quantity,
			Price:               menuItemInfo.Price,
			Subtotal:            menuItemInfo.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			SpecialInstructions: item.SpecialInstructions,
		}
		if errTx := tx.Omit("MenuItem").Create(&newItem).Error; errTx != nil {
			return errTx
		}
		newItem.MenuItem = &menuItemInfo
		orderInfo.OrderItems = append(orderInfo.OrderItems, newItem)
	}
	return nil
}

// Table status synchronization runs inside the order transaction that
// triggered it: occupation on create, release on complete, cancel and
// delete.

func occupyTable(tx *gorm.DB, tableId uint) error {
	return tx.Model(&model.Table{}).Where("id = ?", tableId).
		Update("status", constants.TABLE_OCCUPIED).Error
}

func freeTable(tx *gorm.DB, tableId uint) error {
	return tx.Model(&model.Table{}).Where("id = ?", tableId).
		Update("status", constants.TABLE_AVAILABLE).Error
}
