package dto

import (
	"time"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
)

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserDTO is the client-facing user record; the credential hash stays out.
type UserDTO struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Skills          []string  `json:"skills"`
	PreferredRoles  []string  `json:"preferred_roles"`
	ExperienceYears int       `json:"experience_years"`
	Location        string    `json:"location"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UserSkillsDTO is the narrow skills projection served by GET /api/user/skills.
type UserSkillsDTO struct {
	Skills          []string `json:"skills"`
	PreferredRoles  []string `json:"preferred_roles"`
	ExperienceYears int      `json:"experience_years"`
	Location        string   `json:"location"`
}

func NewUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Skills:          stringSlice(u.Skills),
		PreferredRoles:  stringSlice(u.PreferredRoles),
		ExperienceYears: u.ExperienceYears,
		Location:        u.Location,
		CreatedAt:       u.CreatedAt,
	}
}

func NewUserSkillsDTO(u *model.User) UserSkillsDTO {
	return UserSkillsDTO{
		Skills:          stringSlice(u.Skills),
		PreferredRoles:  stringSlice(u.PreferredRoles),
		ExperienceYears: u.ExperienceYears,
		Location:        u.Location,
	}
}

// stringSlice keeps JSON arrays as [] instead of null for empty columns.
func stringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
