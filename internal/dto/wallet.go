package dto

type WalletResponseDTO struct {
	Currency  string `json:"currency" example:"USD"`
	Available int64  `json:"available" example:"100000"`
	OnHold    int64  `json:"on_hold" example:"0"`
	Locked    int64  `json:"locked" example:"60000"`
}

type DepositRequestDTO struct {
	Amount    int64  `json:"amount" example:"100000"`
	Reference string `json:"reference" example:"2377225624"`
}

type DepositResponseDTO struct {
	Currency  string `json:"currency" example:"USD"`
	Available int64  `json:"available" example:"100000"`
}
