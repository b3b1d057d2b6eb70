package handler

type CredentialsRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	UserID      FlexID `json:"user_id" swaggertype:"integer" example:"1"`
	NewPassword string `json:"new_password"`
}

type AuthResponse struct {
	Message  string `json:"message"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}
