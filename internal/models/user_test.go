package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"manager role", RoleManager, true},
		{"technician role", RoleTechnician, true},
		{"customer role", RoleCustomer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	manager := &User{Role: RoleManager}
	technician := &User{Role: RoleTechnician}
	customer := &User{Role: RoleCustomer}
	unknown := &User{Role: "contractor"}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		{"admin can manage users", admin, PermissionManageUsers, true},
		{"admin can view history", admin, PermissionViewServiceHistory, true},

		{"manager cannot manage users", manager, PermissionManageUsers, false},
		{"manager can view history", manager, PermissionViewServiceHistory, true},
		{"manager can record service", manager, PermissionRecordService, true},

		{"technician can view history", technician, PermissionViewServiceHistory, true},
		{"technician can record service", technician, PermissionRecordService, true},
		{"technician cannot manage users", technician, PermissionManageUsers, false},

		{"customer can view history", customer, PermissionViewServiceHistory, true},
		{"customer cannot record service", customer, PermissionRecordService, false},

		{"unknown role has nothing", unknown, PermissionViewServiceHistory, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.HasPermission(tt.action))
		})
	}
}

func TestUser_FullName(t *testing.T) {
	now := time.Now()
	u := &User{FirstName: "Nimal", LastName: "Perera", LastLogin: &now}
	assert.Equal(t, "Nimal Perera", u.FullName())
}

func TestPaymentLog_IsPaid(t *testing.T) {
	assert.True(t, (&PaymentLog{Status: "Paid"}).IsPaid())
	assert.False(t, (&PaymentLog{Status: "paid"}).IsPaid())
	assert.False(t, (&PaymentLog{Status: "Pending"}).IsPaid())
	assert.False(t, (&PaymentLog{}).IsPaid())
}

func TestServiceHistoryEntry_ProviderName(t *testing.T) {
	center := "AutoCare Colombo"
	external := "Roadside Garage"

	assert.Equal(t, center, (&ServiceHistoryEntry{ServiceCenterName: &center, ExternalServiceCenterName: &external}).ProviderName())
	assert.Equal(t, external, (&ServiceHistoryEntry{ExternalServiceCenterName: &external}).ProviderName())
	assert.Equal(t, "", (&ServiceHistoryEntry{}).ProviderName())
}
