package models

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for registration requests
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// LoginResponse carries the signed token back to the client
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
