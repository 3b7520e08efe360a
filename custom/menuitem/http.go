package menuitem

import (
	"net/http"
	"strconv"

	"github.com/romana/rlog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"restaurant_api/constants"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

type HandlerContext struct {
	db *gorm.DB
}

type CreateMenuItemRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    string           `json:"category"`
	IsAvailable *bool            `json:"is_available,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

// UpdateMenuItemRequest patches only the fields present in the payload.
type UpdateMenuItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

func (ctx *HandlerContext) InitialHandlerContext(db *gorm.DB) {
	ctx.db = db
}

// ListMenuItems is public: it backs the customer-facing menu. Filters are
// independently optional and conjunctive when combined.
func (ctx *HandlerContext) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	query := ctx.db.Model(&model.MenuItem{})
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if rawAvail := r.URL.Query().Get("is_available"); rawAvail != "" {
		avail, err := strconv.ParseBool(rawAvail)
		if err == nil {
			query = query.Where("is_available = ?", avail)
		}
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if errDb := query.Count(&total).Error; errDb != nil {
		rlog.Error("Count menu items failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	page := util.FetchPageParam(r)
	menuItems := make([]model.MenuItem, 0)
	errDb := query.Order("created_at DESC").
		Limit(constants.PAGE_SIZE).Offset((page - 1) * constants.PAGE_SIZE).
		Find(&menuItems).Error
	if errDb != nil {
		rlog.Error("List menu items failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, util.NewPaginated(menuItems, page, total))
}

// CreateMenuItem creates a new menu item
func (ctx *HandlerContext) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	req := CreateMenuItemRequest{}
	err := util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	ve := util.ValidationErrors{}
	if req.Name == "" {
		ve.Add("name", "The name field is required.")
	}
	if req.Category == "" {
		ve.Add("category", "The category field is required.")
	}
	if req.Price == nil {
		ve.Add("price", "The price field is required.")
	} else if req.Price.IsNegative() {
		ve.Add("price", "The price must be at least 0.")
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	newMenuItem := model.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		IsAvailable: isAvailable,
		Image:       req.Image,
	}
	errDb := ctx.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&newMenuItem).Error
	})
	if errDb != nil {
		rlog.Error("Create menu item failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusCreated, newMenuItem)
}

// QueryMenuItem fetches one menu item
func (ctx *HandlerContext) QueryMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var menuItemInfo model.MenuItem
	errDb := ctx.db.Where("id = ?", id).First(&menuItemInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.MENU_ITEM_NOT_FOUND)
		return
	}

	util.WriteJSON(w, http.StatusOK, menuItemInfo)
}

// UpdateMenuItem patches the provided fields only. Price changes never touch
// existing order items, which keep their snapshot price.
func (ctx *HandlerContext) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var menuItemInfo model.MenuItem
	errDb := ctx.db.Where("id = ?", id).First(&menuItemInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.MENU_ITEM_NOT_FOUND)
		return
	}

	req := UpdateMenuItemRequest{}
	err = util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	ve := util.ValidationErrors{}
	if req.Name != nil && *req.Name == "" {
		ve.Add("name", "The name field must not be empty.")
	}
	if req.Category != nil && *req.Category == "" {
		ve.Add("category", "The category field must not be empty.")
	}
	if req.Price != nil && req.Price.IsNegative() {
		ve.Add("price", "The price must be at least 0.")
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	if req.Name != nil {
		menuItemInfo.Name = *req.Name
	}
	if req.Description != nil {
		menuItemInfo.Description = req.Description
	}
	if req.Price != nil {
		menuItemInfo.Price = *req.Price
	}
	if req.Category != nil {
		menuItemInfo.Category = *req.Category
	}
	if req.IsAvailable != nil {
		menuItemInfo.IsAvailable = *req.IsAvailable
	}
	if req.Image != nil {
		menuItemInfo.Image = req.Image
	}

	errDb = ctx.db.Save(&menuItemInfo).Error
	if errDb != nil {
		rlog.Error("Update menu item failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, menuItemInfo)
}

// DeleteMenuItem removes the menu item from the catalog
func (ctx *HandlerContext) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var menuItemInfo model.MenuItem
	errDb := ctx.db.Where("id = ?", id).First(&menuItemInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.MENU_ITEM_NOT_FOUND)
		return
	}

	errDb = ctx.db.Delete(&model.MenuItem{}, id).Error
	if errDb != nil {
		rlog.Error("Delete menu item failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteMessage(w, http.StatusOK, "Menu item deleted successfully")
}
