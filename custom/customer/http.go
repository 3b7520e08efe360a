package customer

import (
	"net/http"
	"net/mail"

	"github.com/romana/rlog"
	"gorm.io/gorm"

	"restaurant_api/constants"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

type HandlerContext struct {
	db *gorm.DB
}

type CreateCustomerRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// UpdateCustomerRequest patches only the fields present in the payload.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (ctx *HandlerContext) InitialHandlerContext(db *gorm.DB) {
	ctx.db = db
}

// ListCustomers returns a page of customers, optionally narrowed by a
// case-insensitive search over name, email and phone.
func (ctx *HandlerContext) ListCustomers(w http.ResponseWriter, r *http.Request) {
	query := ctx.db.Model(&model.Customer{})
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", like, like, like)
	}

	var total int64
	if errDb := query.Count(&total).Error; errDb != nil {
		rlog.Error("Count customers failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	page := util.FetchPageParam(r)
	customers := make([]model.Customer, 0)
	errDb := query.Order("created_at DESC").
		Limit(constants.PAGE_SIZE).Offset((page - 1) * constants.PAGE_SIZE).
		Find(&customers).Error
	if errDb != nil {
		rlog.Error("List customers failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, util.NewPaginated(customers, page, total))
}

// CreateCustomer creates a new customer
func (ctx *HandlerContext) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	req := CreateCustomerRequest{}
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
	if req.Email == "" {
		ve.Add("email", "The email field is required.")
	} else if _, errMail := mail.ParseAddress(req.Email); errMail != nil {
		ve.Add("email", "The email must be a valid email address.")
	}
	if !ve.HasErrors() && ctx.emailTaken(req.Email, 0) {
		ve.Add("email", "The email has already been taken.")
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	newCustomer := model.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	errDb := ctx.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&newCustomer).Error
	})
	if errDb != nil {
		if util.IsUniqueViolation(errDb) {
			ve.Add("email", "The email has already been taken.")
			util.WriteValidationErrors(w, ve)
			return
		}
		rlog.Error("Create customer failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusCreated, newCustomer)
}

// QueryCustomer fetches one customer with its orders
func (ctx *HandlerContext) QueryCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var customerInfo model.Customer
	errDb := ctx.db.Preload("Orders").Where("id = ?", id).First(&customerInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.CUSTOMER_NOT_FOUND)
		return
	}

	util.WriteJSON(w, http.StatusOK, customerInfo)
}

// UpdateCustomer patches the provided fields only
func (ctx *HandlerContext) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var customerInfo model.Customer
	errDb := ctx.db.Where("id = ?", id).First(&customerInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.CUSTOMER_NOT_FOUND)
		return
	}

	req := UpdateCustomerRequest{}
	err = util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload; uniqueness excludes this customer's own row
	ve := util.ValidationErrors{}
	if req.Name != nil && *req.Name == "" {
		ve.Add("name", "The name field must not be empty.")
	}
	if req.Email != nil {
		if _, errMail := mail.ParseAddress(*req.Email); errMail != nil {
			ve.Add("email", "The email must be a valid email address.")
		} else if ctx.emailTaken(*req.Email, id) {
			ve.Add("email", "The email has already been taken.")
		}
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	if req.Name != nil {
		customerInfo.Name = *req.Name
	}
	if req.Email != nil {
		customerInfo.Email = *req.Email
	}
	if req.Phone != nil {
		customerInfo.Phone = req.Phone
	}
	if req.Address != nil {
		customerInfo.Address = req.Address
	}

	errDb = ctx.db.Save(&customerInfo).Error
	if errDb != nil {
		if util.IsUniqueViolation(errDb) {
			ve.Add("email", "The email has already been taken.")
			util.WriteValidationErrors(w, ve)
			return
		}
		rlog.Error("Update customer failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, customerInfo)
}

// DeleteCustomer removes the customer unconditionally. Existing orders keep
// their rows with customer_id set to null.
func (ctx *HandlerContext) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := util.FetchIdParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var customerInfo model.Customer
	errDb := ctx.db.Where("id = ?", id).First(&customerInfo).Error
	if errDb != nil {
		util.WriteMessage(w, http.StatusNotFound, constants.CUSTOMER_NOT_FOUND)
		return
	}

	errDb = ctx.db.Transaction(func(tx *gorm.DB) error {
		if errTx := tx.Model(&model.Order{}).Where("customer_id = ?", id).
			Update("customer_id", nil).Error; errTx != nil {
			return errTx
		}
		return tx.Delete(&model.Customer{}, id).Error
	})
	if errDb != nil {
		rlog.Error("Delete customer failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteMessage(w, http.StatusOK, "Customer deleted successfully")
}

func (ctx *HandlerContext) emailTaken(email string, excludeId uint) bool {
	var count int64
	query := ctx.db.Model(&model.Customer{}).Where("email = ?", email)
	if excludeId != 0 {
		query = query.Where("id <> ?", excludeId)
	}
	if err := query.Count(&count).Error; err != nil {
		rlog.Error("Email uniqueness check failed: ", err.Error())
		return false
	}
	return count > 0
}
