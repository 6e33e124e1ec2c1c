package dto

// -------- Core auth --------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType"`
	Image    string `json:"image"`
}

func (r *RegisterRequest) Validate() error { return checkStruct(r) }

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return checkStruct(r) }

type LogoutRequest struct{}

// -------- Password reset handshake --------

// Step 1: request a reset code by email.
type InitiateResetRequest struct {
	Email string `json:"email" validate:"required"`
}

func (r *InitiateResetRequest) Validate() error { return checkStruct(r) }

// Step 2: check the code without consuming it.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

func (r *VerifyCodeRequest) Validate() error { return checkStruct(r) }

// Step 3: submit the code together with the new password.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

func (r *ResetPasswordRequest) Validate() error { return checkStruct(r) }

// -------- User management --------

type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	UserType *string `json:"userType,omitempty"`
	Image    *string `json:"image,omitempty"`
}

func (r *UpdateUserRequest) Validate() error { return checkStruct(r) }

type AdminUpdateUserRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	UserType *string `json:"userType,omitempty"`
	Image    *string `json:"image,omitempty"`
	Verified *bool   `json:"verified,omitempty"`
}

func (r *AdminUpdateUserRequest) Validate() error { return checkStruct(r) }
