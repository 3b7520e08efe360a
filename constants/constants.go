package constants

import "time"

// Table statuses
const TABLE_AVAILABLE = "available"
const TABLE_OCCUPIED = "occupied"
const TABLE_RESERVED = "reserved"

// Order statuses
const ORDER_PENDING = "pending"
const ORDER_IN_PROGRESS = "in-progress"
const ORDER_COMPLETED = "completed"
const ORDER_CANCELLED = "cancelled"

// Payment statuses
const PAYMENT_UNPAID = "unpaid"
const PAYMENT_PAID = "paid"
const PAYMENT_REFUNDED = "refunded"

// Pagination page size for every list endpoint
const PAGE_SIZE = 15

// Bearer tokens expire this long after issue
const TOKEN_LIFETIME = 30 * 24 * time.Hour

// Error responses
const CUSTOMER_NOT_FOUND = "Customer not found"
const TABLE_NOT_FOUND = "Table not found"
const MENU_ITEM_NOT_FOUND = "Menu item not found"
const ORDER_NOT_FOUND = "Order not found"
const UNAUTHENTICATED = "Unauthenticated."
const INVALID_CREDENTIALS = "Invalid credentials"
const VALIDATION_FAILED = "The given data was invalid."

var ORDER_STATUSES = []string{ORDER_PENDING, ORDER_IN_PROGRESS, ORDER_COMPLETED, ORDER_CANCELLED}
var PAYMENT_STATUSES = []string{PAYMENT_UNPAID, PAYMENT_PAID, PAYMENT_REFUNDED}
var TABLE_STATUSES = []string{TABLE_AVAILABLE, TABLE_OCCUPIED, TABLE_RESERVED}
