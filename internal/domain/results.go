package domain

// AvailabilityResult é a resposta do serviço de estoque para a verificação de disponibilidade
type AvailabilityResult struct {
	Available             bool    `json:"available"`
	UnavailableProductIDs []int64 `json:"unavailable_product_ids"`
}

// PaymentResult é a resposta do serviço de pagamento para a autorização
type PaymentResult struct {
	Authorized    bool  `json:"authorized"`
	TransactionID int64 `json:"transaction_id"`
}

// DebitResult é a resposta do serviço de estoque para a baixa
type DebitResult struct {
	Success bool `json:"success"`
}

// PurchaseResult é devolvido a quem finalizou a compra
type PurchaseResult struct {
	Success       bool   `json:"success"`
	TransactionID int64  `json:"transaction_id"`
	Message       string `json:"message"`
}
