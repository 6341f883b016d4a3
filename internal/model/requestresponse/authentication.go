package requestresponse

import "lms-platform/internal/model"

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=8,max=72" example:"Password123"`
	Name     string `json:"name" validate:"required,min=2,max=100" example:"Alice"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=learner instructor administrator" example:"learner"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"Password123"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UserView : пользователь без хэша пароля
type UserView struct {
	ID    string     `json:"id" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
	Email string     `json:"email" example:"alice@example.com"`
	Name  string     `json:"name" example:"Alice"`
	Role  model.Role `json:"role" example:"learner"`
}

func UserViewFromModel(user *model.User) UserView {
	return UserView{
		ID:    user.UUID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}

// AuthData : data ответа на регистрацию и вход
type AuthData struct {
	User   UserView         `json:"user"`
	Tokens model.TokensPair `json:"tokens"`
}

// AuthResponse : успешный ответ регистрации или входа
type AuthResponse struct {
	Success bool     `json:"success" example:"true"`
	Code    string   `json:"code" example:"OK"`
	Message string   `json:"message"`
	Data    AuthData `json:"data"`
	TraceID string   `json:"trace_id"`
}

// RefreshTokenResponse : ответ на успешный refresh, только пара токенов
type RefreshTokenResponse struct {
	Success bool             `json:"success" example:"true"`
	Code    string           `json:"code" example:"OK"`
	Message string           `json:"message"`
	Data    model.TokensPair `json:"data"`
	TraceID string           `json:"trace_id"`
}

// SessionResponse : содержимое кэша сессии текущего пользователя
type SessionResponse struct {
	Success bool          `json:"success" example:"true"`
	Code    string        `json:"code" example:"OK"`
	Message string        `json:"message"`
	Data    model.Session `json:"data"`
	TraceID string        `json:"trace_id"`
}
