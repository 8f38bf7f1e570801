package requests

// LoginRequest carries the allow-list email to authenticate.
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdatePatientRequest updates the demographics attached to the session.
type UpdatePatientRequest struct {
	Age    int    `json:"age" binding:"required,gte=1,lte=120"`
	Gender string `json:"gender" binding:"required,oneof=Male Female Other"`
}
