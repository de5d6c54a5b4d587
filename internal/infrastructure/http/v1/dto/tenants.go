package dto

// UpdateTenantRequisitesRequest updates the company data printed on
// documents.
type UpdateTenantRequisitesRequest struct {
	Name                string `json:"name" binding:"required"`
	Address             string `json:"address"`
	City                string `json:"city"`
	Zip                 string `json:"zip"`
	JIB                 string `json:"jib" binding:"required"`
	PDVNumber           string `json:"pdvNumber"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	DefaultPlaceOfIssue string `json:"defaultPlaceOfIssue"`
}
