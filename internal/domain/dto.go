package domain

type CreateUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
	Locked    bool   `json:"locked"`
}

type CreateProductRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type CreateOrderItem struct {
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Comment   string `json:"comment,omitempty"`
}

type CreateOrderRequest struct {
	BaristaID        int               `json:"barista_id"`
	CustomerName     string            `json:"customer_name"`
	CustomerPhone    string            `json:"customer_phone"`
	CustomerDetails  string            `json:"customer_details,omitempty"`
	PickupLocationID int               `json:"pickup_location_id"`
	DueDate          string            `json:"due_date"` // 2006-01-02
	DueTime          string            `json:"due_time"` // 15:04
	Items            []CreateOrderItem `json:"items"`
}

type ChangeStatusRequest struct {
	ActorID int        `json:"actor_id"`
	State   OrderState `json:"state"`
	Message string     `json:"message,omitempty"`
}
