// FILE: internal/dto/auth_dto.go
package dto

type RegisterRequest struct {
	Username    string `json:"username" form:"username" validate:"required"`
	DisplayName string `json:"name" form:"name"`
	Password    string `json:"password" form:"password"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}
