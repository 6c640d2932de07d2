package models

// MenuItem is a single catalog entry shown on the storefront.
type MenuItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// CartLine is a menu item plus the quantity the customer picked.
type CartLine struct {
	MenuItem
	Quantity int `json:"quantity"`
}

// User represents a customer created on first OTP verification.
// ID equals the normalized phone string.
type User struct {
	ID            string `json:"id"`
	Phone         string `json:"phone"`
	Name          string `json:"name"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
	JoinedDate    string `json:"joinedDate"`
}

// Order statuses. Orders are created pending and flip to delivered later.
const (
	OrderStatusPending   = "pending"
	OrderStatusDelivered = "delivered"
)

// Order is an immutable checkout snapshot. UserID is empty for guest orders.
type Order struct {
	ID     string     `json:"id"`
	UserID string     `json:"userId,omitempty"`
	Date   string     `json:"date"`
	Items  []CartLine `json:"items"`
	Total  int        `json:"total"`
	Status string     `json:"status"`
}

// OTP is a pending one-time login code, stored hashed.
type OTP struct {
	Phone    string `json:"phone"`
	CodeHash string `json:"codeHash"`
}

// ValidUser reports whether a persisted user payload has the required shape.
func ValidUser(u User) bool {
	return u.ID != "" && u.Phone != "" && u.Name != "" &&
		u.LoyaltyPoints >= 0 && u.JoinedDate != ""
}

// ValidOrders reports whether a persisted order list has the required shape.
// A nil list is rejected; an empty one is fine.
func ValidOrders(orders []Order) bool {
	if orders == nil {
		return false
	}
	for _, o := range orders {
		if o.ID == "" || o.Date == "" || o.Items == nil || o.Total < 0 {
			return false
		}
		if o.Status != OrderStatusPending && o.Status != OrderStatusDelivered {
			return false
		}
	}
	return true
}

// ValidOTP reports whether a persisted OTP payload has the required shape.
func ValidOTP(o OTP) bool {
	return o.Phone != "" && o.CodeHash != ""
}
