package viewmodels

import "time"

type Company struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RegistrationNo string    `json:"registration_no"`
	Country        string    `json:"country"`
	ContactEmail   string    `json:"contact_email"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Ship struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	IMONumber    string    `json:"imo_number"`
	Flag         string    `json:"flag"`
	ShipType     string    `json:"ship_type"`
	GrossTonnage int64     `json:"gross_tonnage"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
