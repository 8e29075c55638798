package domain

import (
	"encoding/json"
	"fmt"
)

// Carrier is the trucking company that owns vehicles and employs drivers.
type Carrier struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	MainOfficeAddress string `json:"main_office_address"`
}

// Validate checks the fields every carrier payload must carry.
func (c Carrier) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: carrier id is required", ErrMalformedResponse)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: carrier name is required", ErrMalformedResponse)
	}
	return nil
}

// CarrierInput is the body of POST /carriers/.
type CarrierInput struct {
	Name              string `json:"name"`
	MainOfficeAddress string `json:"main_office_address"`
}

// Vehicle is a truck owned by a carrier. VehicleNumber is the unique
// human identifier shown in trip lists.
type Vehicle struct {
	ID            int    `json:"id"`
	VehicleNumber string `json:"vehicle_number"`
	LicensePlate  string `json:"license_plate"`
	State         string `json:"state"`
	Carrier       int    `json:"carrier,omitempty"`
}

// Validate checks the fields every vehicle payload must carry.
func (v Vehicle) Validate() error {
	if v.ID <= 0 {
		return fmt.Errorf("%w: vehicle id is required", ErrMalformedResponse)
	}
	if v.VehicleNumber == "" {
		return fmt.Errorf("%w: vehicle number is required", ErrMalformedResponse)
	}
	return nil
}

// VehicleInput is the body of POST /vehicles/.
type VehicleInput struct {
	VehicleNumber string `json:"vehicle_number"`
	LicensePlate  string `json:"license_plate"`
	State         string `json:"state"`
	Carrier       int    `json:"carrier"`
}

// CarrierRef is a carrier reference as embedded in a driver. The API sends
// either a bare id or a {id, name} object depending on the serializer.
type CarrierRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

func (c *CarrierRef) UnmarshalJSON(data []byte) error {
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		*c = CarrierRef{ID: id}
		return nil
	}
	type plain CarrierRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("carrier ref: %w", err)
	}
	*c = CarrierRef(p)
	return nil
}

// Driver is the driver profile attached to a trip.
type Driver struct {
	ID            int        `json:"id"`
	FullName      string     `json:"full_name,omitempty"`
	LicenseNumber string     `json:"license_number"`
	Carrier       CarrierRef `json:"carrier"`
}
