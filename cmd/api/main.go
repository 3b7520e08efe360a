package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"restaurant_api/custom/auth"
	"restaurant_api/custom/customer"
	"restaurant_api/custom/menuitem"
	"restaurant_api/custom/order"
	"restaurant_api/custom/seed"
	"restaurant_api/custom/table"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

func main() {
	configFile := flag.String("config", "./config/config.yaml", "path to the server config file")
	runSeed := flag.Bool("seed", false, "load fixture data before serving")
	flag.Parse()

	serverConfig := util.ServerConfig{}
	serverConfig.GetConf(*configFile)
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		serverConfig.Postgres.Host, serverConfig.Postgres.Port, serverConfig.Postgres.Username, serverConfig.Postgres.Password, serverConfig.Postgres.Database)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database" + err.Error())
	}
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Auto migrate table schemas
	err = db.AutoMigrate(model.ALL_RESTAURANT_TABLES...)
	if err != nil {
		panic("failed to migrate database" + err.Error())
	}

	if *runSeed {
		if err := seed.Run(db); err != nil {
			panic("failed to seed database" + err.Error())
		}
	}

	// Initialize handler contexts
	authCtx := auth.HandlerContext{}
	authCtx.InitialHandlerContext(db)
	customerCtx := customer.HandlerContext{}
	customerCtx.InitialHandlerContext(db)
	tableCtx := table.HandlerContext{}
	tableCtx.InitialHandlerContext(db)
	menuItemCtx := menuitem.HandlerContext{}
	menuItemCtx.InitialHandlerContext(db)
	orderCtx := order.HandlerContext{}
	orderCtx.InitialHandlerContext(db)

	// Start REST APIs
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/auth/register", authCtx.Register)
	mux.HandleFunc("POST /v1/auth/login", authCtx.Login)
	mux.HandleFunc("POST /v1/auth/logout", authCtx.RequireToken(authCtx.Logout))
	mux.HandleFunc("GET /v1/auth/me", authCtx.RequireToken(authCtx.Me))

	// Menu reads are public so customers can browse without logging in
	mux.HandleFunc("GET /v1/menu-items", menuItemCtx.ListMenuItems)
	mux.HandleFunc("GET /v1/menu-items/{id}", menuItemCtx.QueryMenuItem)
	mux.HandleFunc("POST /v1/menu-items", authCtx.RequireToken(menuItemCtx.CreateMenuItem))
	mux.HandleFunc("PUT /v1/menu-items/{id}", authCtx.RequireToken(menuItemCtx.UpdateMenuItem))
	mux.HandleFunc("DELETE /v1/menu-items/{id}", authCtx.RequireToken(menuItemCtx.DeleteMenuItem))

	mux.HandleFunc("GET /v1/customers", authCtx.RequireToken(customerCtx.ListCustomers))
	mux.HandleFunc("POST /v1/customers", authCtx.RequireToken(customerCtx.CreateCustomer))
	mux.HandleFunc("GET /v1/customers/{id}", authCtx.RequireToken(customerCtx.QueryCustomer))
	mux.HandleFunc("PUT /v1/customers/{id}", authCtx.RequireToken(customerCtx.UpdateCustomer))
	mux.HandleFunc("DELETE /v1/customers/{id}", authCtx.RequireToken(customerCtx.DeleteCustomer))

	mux.HandleFunc("GET /v1/tables", authCtx.RequireToken(tableCtx.ListTables))
	mux.HandleFunc("POST /v1/tables", authCtx.RequireToken(tableCtx.CreateTable))
	mux.HandleFunc("GET /v1/tables/{id}", authCtx.RequireToken(tableCtx.QueryTable))
	mux.HandleFunc("PUT /v1/tables/{id}", authCtx.RequireToken(tableCtx.UpdateTable))
	mux.HandleFunc("DELETE /v1/tables/{id}", authCtx.RequireToken(tableCtx.DeleteTable))

	mux.HandleFunc("GET /v1/orders", authCtx.RequireToken(orderCtx.ListOrders))
	mux.HandleFunc("POST /v1/orders", authCtx.RequireToken(orderCtx.CreateOrder))
	mux.HandleFunc("GET /v1/orders/{id}", authCtx.RequireToken(orderCtx.QueryOrder))
	mux.HandleFunc("PUT /v1/orders/{id}", authCtx.RequireToken(orderCtx.UpdateOrder))
	mux.HandleFunc("DELETE /v1/orders/{id}", authCtx.RequireToken(orderCtx.DeleteOrder))

	log.Fatal(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", serverConfig.Api_port), mux))
}
