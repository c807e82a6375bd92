package models

import "time"

// Profile is a one-row table; the check constraint pins its key to ProfileID.
type Profile struct {
	ID           string    `json:"id" db:"id" gorm:"type:varchar(16);primaryKey;check:chk_profiles_singleton,id = 'profile'"`
	Name         string    `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Title        string    `json:"title" db:"title" gorm:"type:varchar(100);not null"`
	Bio          string    `json:"bio" db:"bio" gorm:"type:text;not null"`
	Email        string    `json:"email" db:"email" gorm:"type:varchar(200);not null"`
	Phone        *string   `json:"phone,omitempty" db:"phone" gorm:"type:varchar(50)"`
	Location     *string   `json:"location,omitempty" db:"location" gorm:"type:varchar(100)"`
	Website      *string   `json:"website,omitempty" db:"website" gorm:"type:text"`
	Github       *string   `json:"github,omitempty" db:"github" gorm:"type:text"`
	Linkedin     *string   `json:"linkedin,omitempty" db:"linkedin" gorm:"type:text"`
	Twitter      *string   `json:"twitter,omitempty" db:"twitter" gorm:"type:text"`
	ProfileImage *string   `json:"profileImage,omitempty" db:"profile_image" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultProfile is materialized the first time the profile is read.
func DefaultProfile() Profile {
	return Profile{
		ID:           ProfileID,
		Name:         "Monther Alzamli",
		Title:        "Full Stack Developer & UI/UX Designer",
		Bio:          "Passionate full-stack developer with 5+ years of experience building scalable web applications and mobile apps. I specialize in React, Next.js, Node.js, and modern cloud technologies. I love creating intuitive user experiences and solving complex technical challenges.",
		Email:        "montherismail90@gmail.com",
		Phone:        ptr("+970 59 123 4567"),
		Location:     ptr("Palestine"),
		Website:      ptr("https://montheralzamli.com"),
		Github:       ptr("https://github.com/MontherIsmail"),
		Linkedin:     ptr("https://linkedin.com/in/MontherAlzamli"),
		Twitter:      ptr("https://twitter.com/MontherAlzamli"),
		ProfileImage: ptr("/profile-image.jpg"),
	}
}

func ptr(s string) *string { return &s }
