package customer

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/gorm"

	"restaurant_api/custom/util"
	"restaurant_api/model"
)

var testCustomer = model.Customer{
	ID:      1,
	Name:    "Jane Smith",
	Email:   "jane@example.com",
	Phone:   util.GetStringPtr("+1-555-0102"),
	Address: util.GetStringPtr("456 Oak Ave, Los Angeles, CA 90001"),
}

func emptyCount() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(0)
}

func TestCreateCustomerSuccess(t *testing.T) {
	sqlDB, gormDB, mock := util.DbMock(t)
	defer sqlDB.Close()
	handlerCtx := HandlerContext{}
	handlerCtx.InitialHandlerContext(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE email = .+`).
		WillReturnRows(emptyCount())
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers" .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	reqBody, _ := json.Marshal(CreateCustomerRequest{
		Name:  testCustomer.Name,
		Email: testCustomer.Email,
		Phone: testCustomer.Phone,
	})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "http://localhosts/v1/customers", bytes.NewBuffer(reqBody))
	handlerCtx.CreateCustomer(w, r)

	assert.Nil(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusCreated, w.Code)

	actualResp := model.Customer{}
	json.Unmarshal(w.Body.Bytes(), &actualResp)
	assert.Equal(t, testCustomer.Email, actualResp.Email)
}

func TestCreateCustomerMissingFields(t *testing.T) {
	sqlDB, gormDB, _ := util.DbMock(t)
	defer sqlDB.Close()
	handlerCtx := HandlerContext{}
	handlerCtx.InitialHandlerContext(gormDB)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "http://localhosts/v1/customers", bytes.NewBuffer([]byte(`{}`)))
	handlerCtx.CreateCustomer(w, r)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "name")
	assert.Contains(t, w.Body.String(), "email")
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	sqlDB, gormDB, mock := util.DbMock(t)
	defer sqlDB.Close()
	handlerCtx := HandlerContext{}
	handlerCtx.InitialHandlerContext(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE email = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	reqBody, _ := json.Marshal(CreateCustomerRequest{
		Name:  testCustomer.Name,
		Email: testCustomer.Email,
	})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "http://localhosts/v1/customers", bytes.NewBuffer(reqBody))
	handlerCtx.CreateCustomer(w, r)

	assert.Nil(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "The email has already been taken.")
}

func TestSearchCustomers(t *testing.T) {
	sqlDB, gormDB, mock := util.DbMock(t)
	defer sqlDB.Close()
	handlerCtx := HandlerContext{}
	handlerCtx.InitialHandlerContext(gormDB)

	customerRows, _ := util.ObjectToRows(testCustomer)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE \(name ILIKE .+ OR email ILIKE .+ OR phone ILIKE .+\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE \(name ILIKE .+\) ORDER BY created_at DESC LIMIT .+`).
		WillReturnRows(customerRows)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://localhosts/v1/customers?search=jane", nil)
	handlerCtx.ListCustomers(w, r)

	assert.Nil(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusOK, w.Code)

	actualResp := struct {
		Data        []model.Customer `json:"data"`
		CurrentPage int              `json:"current_page"`
		PerPage     int              `json:"per_page"`
		Total       int64            `json:"total"`
	}{}
	json.Unmarshal(w.Body.Bytes(), &actualResp)
	assert.Equal(t, 1, actualResp.CurrentPage)
	assert.Equal(t, 15, actualResp.PerPage)
	assert.EqualValues(t, 1, actualResp.Total)
	if assert.Len(t, actualResp.Data, 1) {
		assert.Equal(t, testCustomer.Email, actualResp.Data[0].Email)
	}
}

func TestQueryCustomerNotFound(t *testing.T) {
	sqlDB, gormDB, mock := util.DbMock(t)
	defer sqlDB.Close()
	handlerCtx := HandlerContext{}
	handlerCtx.InitialHandlerContext(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = .+`).
		WillReturnError(gorm.ErrRecordNotFound)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://localhosts/v1/customers/42", nil)
	r.SetPathValue("id", "42")
	handlerCtx.QueryCustomer(w, r)

	assert.Nil(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateCustomerPartial(t *testing.T) {
	sqlDB, gormDB, mock := util.DbMock(t)
	defer sqlDB.Close()
	handlerCtx := HandlerContext{}
	handlerCtx.InitialHandlerContext(gormDB)

	customerRows, _ := util.ObjectToRows(testCustomer)
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = .+`).
		WillReturnRows(customerRows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers" SET .+`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	reqBody := []byte(`{"phone":"+1-555-0199"}`)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "http://localhosts/v1/customers/1", bytes.NewBuffer(reqBody))
	r.SetPathValue("id", "1")
	handlerCtx.UpdateCustomer(w, r)

	assert.Nil(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusOK, w.Code)

	actualResp := model.Customer{}
	json.Unmarshal(w.Body.Bytes(), &actualResp)
	assert.Equal(t, "+1-555-0199", *actualResp.Phone)
	assert.Equal(t, testCustomer.Name, actualResp.Name)
}

func TestDeleteCustomerWithOrders(t *testing.T) {
	sqlDB, gormDB, mock := util.DbMock(t)
	defer sqlDB.Close()
	handlerCtx := HandlerContext{}
	handlerCtx.InitialHandlerContext(gormDB)

	customerRows, _ := util.ObjectToRows(testCustomer)
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = .+`).
		WillReturnRows(customerRows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET .+`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "customers" WHERE .+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "http://localhosts/v1/customers/1", nil)
	r.SetPathValue("id", "1")
	handlerCtx.DeleteCustomer(w, r)

	assert.Nil(t, mock.ExpectationsWereMet())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Customer deleted successfully")
}
