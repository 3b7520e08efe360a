package seed

import (
	"fmt"

	"github.com/romana/rlog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"restaurant_api/constants"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

// Run loads the fixture data set: an admin login, sample customers, tables
// T1..T10 and the full menu. Tables that already hold rows are left alone.
func Run(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedCustomers(db); err != nil {
		return err
	}
	if err := seedTables(db); err != nil {
		return err
	}
	return seedMenuItems(db)
}

func seedUsers(db *gorm.DB) error {
	if !tableEmpty(db, &model.User{}) {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := model.User{
		Name:     "Admin User",
		Email:    "admin@restaurant.com",
		Password: string(hash),
	}
	rlog.Info("Seeding admin user")
	return db.Create(&admin).Error
}

func seedCustomers(db *gorm.DB) error {
	if !tableEmpty(db, &model.Customer{}) {
		return nil
	}
	customers := []model.Customer{
		{Name: "John Doe", Email: "john@example.com", Phone: util.GetStringPtr("+1-555-0101"), Address: util.GetStringPtr("123 Main St, New York, NY 10001")},
		{Name: "Jane Smith", Email: "jane@example.com", Phone: util.GetStringPtr("+1-555-0102"), Address: util.GetStringPtr("456 Oak Ave, Los Angeles, CA 90001")},
		{Name: "Bob Johnson", Email: "bob@example.com", Phone: util.GetStringPtr("+1-555-0103"), Address: util.GetStringPtr("789 Pine Rd, Chicago, IL 60601")},
		{Name: "Alice Williams", Email: "alice@example.com", Phone: util.GetStringPtr("+1-555-0104"), Address: util.GetStringPtr("321 Elm St, Houston, TX 77001")},
		{Name: "Charlie Brown", Email: "charlie@example.com", Phone: util.GetStringPtr("+1-555-0105"), Address: util.GetStringPtr("654 Maple Dr, Phoenix, AZ 85001")},
	}
	rlog.Infof("Seeding %d customers", len(customers))
	return db.Create(&customers).Error
}

func seedTables(db *gorm.DB) error {
	if !tableEmpty(db, &model.Table{}) {
		return nil
	}
	capacities := []int{2, 4, 4, 6, 2, 4, 8, 2, 4, 6}
	tables := make([]model.Table, 0, len(capacities))
	for i, capacity := range capacities {
		tables = append(tables, model.Table{
			TableNumber: fmt.Sprintf("T%d", i+1),
			Capacity:    capacity,
			Status:      constants.TABLE_AVAILABLE,
		})
	}
	rlog.Infof("Seeding %d tables", len(tables))
	return db.Create(&tables).Error
}

func seedMenuItems(db *gorm.DB) error {
	if !tableEmpty(db, &model.MenuItem{}) {
		return nil
	}
	menuItems := []model.MenuItem{
		{Name: "Caesar Salad", Description: util.GetStringPtr("Fresh romaine lettuce with Caesar dressing, croutons, and parmesan cheese"), Price: price("8.99"), Category: "Appetizers", IsAvailable: true},
		{Name: "Bruschetta", Description: util.GetStringPtr("Toasted bread topped with tomatoes, garlic, basil, and olive oil"), Price: price("7.50"), Category: "Appetizers", IsAvailable: true},
		{Name: "Chicken Wings", Description: util.GetStringPtr("Crispy chicken wings with buffalo or BBQ sauce"), Price: price("10.99"), Category: "Appetizers", IsAvailable: true},
		{Name: "Grilled Salmon", Description: util.GetStringPtr("Fresh Atlantic salmon with lemon butter sauce, served with vegetables"), Price: price("22.99"), Category: "Main Courses", IsAvailable: true},
		{Name: "Ribeye Steak", Description: util.GetStringPtr("12oz premium ribeye steak, cooked to perfection with garlic butter"), Price: price("32.99"), Category: "Main Courses", IsAvailable: true},
		{Name: "Chicken Parmesan", Description: util.GetStringPtr("Breaded chicken breast with marinara sauce and melted mozzarella"), Price: price("18.99"), Category: "Main Courses", IsAvailable: true},
		{Name: "Vegetarian Pasta", Description: util.GetStringPtr("Penne pasta with seasonal vegetables in a light tomato sauce"), Price: price("15.99"), Category: "Main Courses", IsAvailable: true},
		{Name: "Margherita Pizza", Description: util.GetStringPtr("Classic pizza with tomato sauce, mozzarella, and fresh basil"), Price: price("13.99"), Category: "Pizzas", IsAvailable: true},
		{Name: "Pepperoni Pizza", Description: util.GetStringPtr("Loaded with pepperoni and extra cheese"), Price: price("15.99"), Category: "Pizzas", IsAvailable: true},
		{Name: "Quattro Formaggi", Description: util.GetStringPtr("Four cheese pizza with mozzarella, gorgonzola, parmesan, and ricotta"), Price: price("16.99"), Category: "Pizzas", IsAvailable: true},
		{Name: "Tiramisu", Description: util.GetStringPtr("Classic Italian dessert with coffee-soaked ladyfingers and mascarpone"), Price: price("7.99"), Category: "Desserts", IsAvailable: true},
		{Name: "Chocolate Lava Cake", Description: util.GetStringPtr("Warm chocolate cake with a molten center, served with vanilla ice cream"), Price: price("8.99"), Category: "Desserts", IsAvailable: true},
		{Name: "Cheesecake", Description: util.GetStringPtr("New York style cheesecake with berry compote"), Price: price("7.50"), Category: "Desserts", IsAvailable: true},
		{Name: "Coca Cola", Description: util.GetStringPtr("Classic Coca Cola (330ml)"), Price: price("2.50"), Category: "Beverages", IsAvailable: true},
		{Name: "Fresh Orange Juice", Description: util.GetStringPtr("Freshly squeezed orange juice"), Price: price("4.50"), Category: "Beverages", IsAvailable: true},
		{Name: "Espresso", Description: util.GetStringPtr("Double shot of premium espresso"), Price: price("3.50"), Category: "Beverages", IsAvailable: true},
	}
	rlog.Infof("Seeding %d menu items", len(menuItems))
	return db.Create(&menuItems).Error
}

func tableEmpty(db *gorm.DB, object interface{}) bool {
	var count int64
	if err := db.Model(object).Count(&count).Error; err != nil {
		rlog.Error("Seed count failed: ", err.Error())
		return false
	}
	return count == 0
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
