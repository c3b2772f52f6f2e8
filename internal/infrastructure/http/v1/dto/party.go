package dto

import (
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/vendor"
)

// --- Vendor ---

// CreateVendorRequest for registering a supplier.
type CreateVendorRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"max=50"`
	LeadTime int    `json:"leadTime" binding:"gte=0"`
}

// ToEntity builds a new vendor.
func (r *CreateVendorRequest) ToEntity() (*vendor.Vendor, error) {
	v := vendor.NewVendor(r.Name)
	v.Email = r.Email
	v.Phone = r.Phone
	v.LeadTime = r.LeadTime
	return v, nil
}

// UpdateVendorRequest is a partial vendor update.
type UpdateVendorRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=200"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	LeadTime *int    `json:"leadTime" binding:"omitempty,gte=0"`
}

// ApplyTo copies the present fields onto v.
func (r *UpdateVendorRequest) ApplyTo(v *vendor.Vendor) error {
	if r.Name != nil {
		v.Name = *r.Name
	}
	if r.Email != nil {
		v.Email = *r.Email
	}
	if r.Phone != nil {
		v.Phone = *r.Phone
	}
	if r.LeadTime != nil {
		v.LeadTime = *r.LeadTime
	}
	return nil
}

// --- Customer ---

// CreateCustomerRequest for registering a buyer. totalSpent is owned by the
// sales engine and cannot be set.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"required,max=50"`
}

// ToEntity builds a new customer.
func (r *CreateCustomerRequest) ToEntity() (*customer.Customer, error) {
	c := customer.NewCustomer(r.Name, r.Phone)
	c.Email = r.Email
	return c, nil
}

// UpdateCustomerRequest is a partial customer update.
type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=200"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// ApplyTo copies the present fields onto c.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) error {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	return nil
}
