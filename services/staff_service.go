// services/staff_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"hotelops-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// StaffService resolves the acting staff user for login and audit fields.
type StaffService struct {
	DB *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{DB: db}
}

// Authenticate checks credentials and returns the staff record. The same
// error is returned for unknown user and wrong password so login probes
// can't distinguish the two.
func (s *StaffService) Authenticate(username, password string) (*models.Staff, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, opErr(CodeInvalidInput, "username and password are required", nil)
	}

	var staff models.Staff
	err := s.DB.Where("username = ?", username).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeInvalidInput, "invalid credentials", nil)
		}
		return nil, fmt.Errorf("db error loading staff %s: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return nil, opErr(CodeInvalidInput, "invalid credentials", nil)
	}
	return &staff, nil
}

// GetStaff loads one staff record by id.
func (s *StaffService) GetStaff(staffID uint) (*models.Staff, error) {
	var staff models.Staff
	if err := s.DB.First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, opErr(CodeInvalidInput, "staff not found", map[string]uint{"staff_id": staffID})
		}
		return nil, fmt.Errorf("failed to retrieve staff: %w", err)
	}
	return &staff, nil
}
