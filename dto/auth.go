package dto

type SetupPinRequest struct {
	Pin        string `json:"pin" validate:"required,pin"`
	ConfirmPin string `json:"confirm_pin" validate:"required,eqfield=Pin"`
}

func (r SetupPinRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Pin string `json:"pin" validate:"required"`
}

func (r LoginRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type ActivateRequest struct {
	Pin string `json:"pin" validate:"required"`
}

func (r ActivateRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ActivateResponse struct {
	Activated bool `json:"activated"`
}
