package dto

import (
	"github.com/campushq/exam-portal-api/internal/models"
)

// StudentRegisterRequest is the payload for joining the roster. Approval is
// granted separately by a teacher.
type StudentRegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	PRN      string `json:"prn" validate:"required,min=3"`
	Year     string `json:"year" validate:"omitempty,max=32"`
}

// StudentResponse serializes a roster entry.
type StudentResponse struct {
	ID         uint   `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	PRN        string `json:"prn"`
	Year       string `json:"year"`
	IsApproved bool   `json:"is_approved"`
}

// NewStudentResponse converts a Student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:         model.ID,
		FullName:   model.FullName,
		Email:      model.Email,
		PRN:        model.PRN,
		Year:       model.Year,
		IsApproved: model.IsApproved,
	}
}

// NewStudentResponseSlice converts a slice of students.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
