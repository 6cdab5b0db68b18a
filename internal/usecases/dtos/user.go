package dtos

type RegisterDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type OpenAccountDTO struct {
	AccountType string `json:"account_type" validate:"required,oneof=checking savings"`
}

type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}
