package table

import (
	"net/http"
	"slices"

	"github.com/romana/rlog"
	"gorm.io/gorm"

	"restaurant_api/constants"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

type HandlerContext struct {
	db *gorm.DB
}

type CreateTableRequest struct {
	TableNumber string  `json:"table_number"`
	Capacity    int     `json:"capacity"`
	Status      *string `json:"status,omitempty"`
}

// UpdateTableRequest patches only the fields present in the payload.
type UpdateTableRequest struct {
	TableNumber *string `json:"table_number,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (ctx *HandlerContext) InitialHandlerContext(db *gorm.DB) {
	ctx.db = db
}

// ListTables returns tables ordered by table number, unlike the other
// resources which list most-recent first.
func (ctx *HandlerContext) ListTables(w http.ResponseWriter, r *http.Request) {
	query := ctx.db.Model(&model.Table{})
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if errDb := query.Count(&total).Error; errDb != nil {
		rlog.Error("Count tables failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	page := util.FetchPageParam(r)
	tables := make([]model.Table, 0)
	errDb := query.Order("table_number ASC").
		Limit(constants.PAGE_SIZE).Offset((page - 1) * constants.PAGE_SIZE).
		Find(&tables).Error
	if errDb != nil {
		rlog.Error("List tables failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, util.NewPaginated(tables, page, total))
}

// CreateTable creates a new dining table
func (ctx *HandlerContext) CreateTable(w http.ResponseWriter, r *http.Request) {
	req := CreateTableRequest{}
	err := util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	ve := util.ValidationErrors{}
	if req.TableNumber == "" {
		ve.Add("table_number", "The table number field is required.")
	} else if ctx.tableNumberTaken(req.TableNumber, 0) {
		ve.Add("table_number", "The table number has already been taken.")
	}
	if req.Capacity < 1 {
		ve.Add("capacity", "The capacity must be at least 1.")
	}
	status := constants.TABLE_AVAILABLE
	if req.Status != nil {
		if !slices.Contains(constants.TABLE_STATUSES, *req.Status) {
			ve.Add("status", "The selected status is invalid.")
		} else {
			status = *req.Status
		}
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	newTable := model.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      status,
	}
	errDb := ctx.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&newTable).Error
	})
	if errDb != nil {
		if util.IsUniqueViolation(errDb) {
			ve.Add("table_number", "The table number has already been taken.")
			util.WriteValidationErrors(w, ve)
			return
		}
		rlog.Error("Create table failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusCreated, newTable)
}

// QueryTable fetches one table with its orders
func (ctx *HandlerContext) QueryTable(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var tableInfo model.Table
	errDb := ctx.db.Preload("Orders").Where("id = ?", id).First(&tableInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.TABLE_NOT_FOUND)
		return
	}

	util.WriteJSON(w, http.StatusOK, tableInfo)
}

// UpdateTable patches the provided fields only
func (ctx *HandlerContext) UpdateTable(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var tableInfo model.Table
	errDb := ctx.db.Where("id = ?", id).First(&tableInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.TABLE_NOT_FOUND)
		return
	}

	req := UpdateTableRequest{}
	err = util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload; uniqueness excludes this table's own row
	ve := util.ValidationErrors{}
	if req.TableNumber != nil {
		if *req.TableNumber == "" {
			ve.Add("table_number", "The table number field must not be empty.")
		} else if ctx.tableNumberTaken(*req.TableNumber, id) {
			ve.Add("table_number", "The table number has already been taken.")
		}
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		ve.Add("capacity", "The capacity must be at least 1.")
	}
	if req.Status != nil && !slices.Contains(constants.TABLE_STATUSES, *req.Status) {
		ve.Add("status", "The selected status is invalid.")
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	if req.TableNumber != nil {
		tableInfo.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		tableInfo.Capacity = *req.Capacity
	}
	if req.Status != nil {
		tableInfo.Status = *req.Status
	}

	errDb = ctx.db.Save(&tableInfo).Error
	if errDb != nil {
		if util.IsUniqueViolation(errDb) {
			ve.Add("table_number", "The table number has already been taken.")
			util.WriteValidationErrors(w, ve)
			return
		}
		rlog.Error("Update table failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, tableInfo)
}

// DeleteTable removes the table; orders that referenced it keep their rows
// with table_id set to null.
func (ctx *HandlerContext) DeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var tableInfo model.Table
	errDb := ctx.db.Where("id = ?", id).First(&tableInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.TABLE_NOT_FOUND)
		return
	}

	errDb = ctx.db.Transaction(func(tx *gorm.DB) error {
		if errTx := tx.Model(&model.Order{}).Where("table_id = ?", id).
			Update("table_id", nil).Error; errTx != nil {
			return errTx
		}
		return tx.Delete(&model.Table{}, id).Error
	})
	if errDb != nil {
		rlog.Error("Delete table failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteMessage(w, http.StatusOK, "Table deleted successfully")
}

func (ctx *HandlerContext) tableNumberTaken(tableNumber string, excludeId uint) bool {
	var count int64
	query := ctx.db.Model(&model.Table{}).Where("table_number = ?", tableNumber)
	if excludeId != 0 {
		query = query.Where("id <> ?", excludeId)
	}
	if err := query.Count(&count).Error; err != nil {
		rlog.Error("Table number uniqueness check failed: ", err.Error())
		return false
	}
	return count > 0
}
