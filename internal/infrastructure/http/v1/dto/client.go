package dto

// CreateClientRequest creates a client registry entry.
type CreateClientRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name" binding:"required"`
	ShortName string `json:"shortName"`

	Address      string `json:"address"`
	City         string `json:"city"`
	Zip          string `json:"zip"`
	Municipality string `json:"municipality"`
	Canton       string `json:"canton"`
	Country      string `json:"country"`

	JIB       string `json:"jib"`
	PDVNumber string `json:"pdvNumber"`

	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Web           string `json:"web"`
	BankAccount   string `json:"bankAccount"`
	ContactPerson string `json:"contactPerson"`
}

// UpdateClientRequest rewrites a client entry. Version is required for
// optimistic locking.
type UpdateClientRequest struct {
	CreateClientRequest
	Version int `json:"version" binding:"required,min=1"`
}
