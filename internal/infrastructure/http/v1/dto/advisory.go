package dto

// GenerateDescriptionRequest asks for a product description.
type GenerateDescriptionRequest struct {
	ProductName string `json:"productName" binding:"required"`
	Language    string `json:"language"`
}

// AdvisoryResponse carries generated advisory text.
type AdvisoryResponse struct {
	Text string `json:"text"`
}
