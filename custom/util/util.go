package util

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/romana/rlog"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant_api/constants"
)

type DbConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type ServerConfig struct {
	Postgres DbConfig `yaml:"postgres"`
	Api_port int      `yaml:"api_port"`
}

func (c *ServerConfig) GetConf(fileName string) *ServerConfig {
	yamlFile, err := os.ReadFile(fileName)
	if err != nil {
		log.Printf("Read yaml file %s failed: %s ", fileName, err.Error())
	}
	err = yaml.Unmarshal(yamlFile, c)
	if err != nil {
		log.Fatalf("Unmarshal: %v", err)
	}

	return c
}

func FetchReqObject(r *http.Request, reqObj interface{}) error {
	if r == nil {
		return errors.New("http request is nil")
	}
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		errInfo := "Read request body failed" + err.Error()
		rlog.Error(errInfo)
		return errors.New(errInfo)
	}
	err = json.Unmarshal(reqBody, reqObj)
	if err != nil {
		errInfo := "Unmarshal request body failed" + err.Error()
		rlog.Error(errInfo)
		return errors.New(errInfo)
	}
	return nil
}

// FetchIdParam parses the {id} path segment of a resource route.
func FetchIdParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func GetStringPtr(s string) *string {
	return &s
}

func GetUintPtr(v uint) *uint {
	return &v
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	respBody, err := json.Marshal(payload)
	if err != nil {
		rlog.Error("Marshal response failed: ", err.Error())
		return
	}
	w.Write(respBody)
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"message": message})
}

// ValidationErrors collects per-field messages for a 422 response.
type ValidationErrors map[string][]string

func (ve ValidationErrors) Add(field, message string) {
	ve[field] = append(ve[field], message)
}

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

func WriteValidationErrors(w http.ResponseWriter, ve ValidationErrors) {
	WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": constants.VALIDATION_FAILED,
		"errors":  ve,
	})
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505) surfaced through the pgx driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Paginated is the list-response envelope shared by every resource.
type Paginated struct {
	Data        interface{} `json:"data"`
	CurrentPage int         `json:"current_page"`
	LastPage    int         `json:"last_page"`
	PerPage     int         `json:"per_page"`
	Total       int64       `json:"total"`
}

func NewPaginated(data interface{}, page int, total int64) Paginated {
	lastPage := int((total + constants.PAGE_SIZE - 1) / constants.PAGE_SIZE)
	if lastPage < 1 {
		lastPage = 1
	}
	return Paginated{
		Data:        data,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     constants.PAGE_SIZE,
		Total:       total,
	}
}

// FetchPageParam reads the page query parameter, defaulting to the first page.
func FetchPageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// DbMock For unit test usage
func DbMock(t *testing.T) (*sql.DB, *gorm.DB, sqlmock.Sqlmock) {
	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	gormdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqldb,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		t.Fatal(err)
	}

	return sqldb, gormdb, mock
}

// ObjectToRows For unit test usage
func ObjectToRows(object interface{}) (*sqlmock.Rows, error) {
	buf, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}
	rowMap := make(map[string]interface{})
	err = json.Unmarshal(buf, &rowMap)
	if err != nil {
		return nil, err
	}
	columns := make([]string, 0)
	values := make([]driver.Value, 0)
	for k, v := range rowMap {
		columns = append(columns, k)
		values = append(values, v)
	}
	return sqlmock.NewRows(columns).AddRow(values...), nil
}
