package dto

type VerificationResponseDTO struct {
	State string `json:"state" example:"verified"`
}
