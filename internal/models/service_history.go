package models

import "time"

// ServiceHistory represents a stored vehicle service record.
type ServiceHistory struct {
	ID                        int64     `json:"service_history_id" bson:"_id"`
	VehicleID                 int64     `json:"vehicle_id" bson:"vehicle_id"`
	ServiceType               string    `json:"service_type" bson:"service_type"` // "Oil Change", "Brake Service", "Inspection", ...
	Description               string    `json:"description" bson:"description"`
	Cost                      float64   `json:"cost" bson:"cost"`
	ServiceDate               time.Time `json:"service_date" bson:"service_date"`
	Mileage                   int       `json:"mileage" bson:"mileage"` // odometer, km
	IsVerified                bool      `json:"is_verified" bson:"is_verified"`
	ServiceCenterID           *int64    `json:"service_center_id,omitempty" bson:"service_center_id,omitempty"`
	ServicedByUserID          *int64    `json:"serviced_by_user_id,omitempty" bson:"serviced_by_user_id,omitempty"`
	ExternalServiceCenterName *string   `json:"external_service_center_name,omitempty" bson:"external_service_center_name,omitempty"`
	ReceiptDocumentPath       *string   `json:"receipt_document_path,omitempty" bson:"receipt_document_path,omitempty"`
}

// ServiceCenter represents a workshop operated on the platform.
type ServiceCenter struct {
	ID          int64  `json:"station_id" bson:"_id"`
	StationName string `json:"station_name" bson:"station_name"`
	Address     string `json:"address,omitempty" bson:"address,omitempty"`
}

// ServiceHistoryEntry is the render-ready view of a ServiceHistory record
// with its references resolved to display names.
type ServiceHistoryEntry struct {
	ServiceHistoryID          int64     `json:"service_history_id"`
	VehicleID                 int64     `json:"vehicle_id"`
	ServiceType               string    `json:"service_type"`
	Description               string    `json:"description"`
	Cost                      float64   `json:"cost"`
	ServiceDate               time.Time `json:"service_date"`
	Mileage                   int       `json:"mileage"`
	IsVerified                bool      `json:"is_verified"`
	ServiceCenterName         *string   `json:"service_center_name"`
	ServicedByName            *string   `json:"serviced_by_name"`
	ExternalServiceCenterName *string   `json:"external_service_center_name"`
	ReceiptDocumentPath       *string   `json:"receipt_document_path"`
}

// ProviderName returns the name of whoever performed the service: the
// platform service center when linked, otherwise the external workshop.
func (e *ServiceHistoryEntry) ProviderName() string {
	if e.ServiceCenterName != nil {
		return *e.ServiceCenterName
	}
	if e.ExternalServiceCenterName != nil {
		return *e.ExternalServiceCenterName
	}
	return ""
}
