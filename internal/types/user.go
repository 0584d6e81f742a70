package types

import "strings"

const studentEmailDomain = "@wisc.edu"

// User is the signed-in account as reported by Firebase Auth.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName falls back to a placeholder when the account has no name.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) == "" {
		return "Not provided"
	}
	return u.Name
}

// IsStudent reports whether the account uses a UW-Madison address.
func (u User) IsStudent() bool {
	return strings.HasSuffix(strings.ToLower(u.Email), studentEmailDomain)
}

// Status is the account badge text.
func (u User) Status() string {
	if u.IsStudent() {
		return "UW-Madison Student"
	}
	return "Verified User"
}

// TakenCourse is one row of a user's imported course history.
type TakenCourse struct {
	CourseCode string `json:"course_code"`
	Semester   string `json:"semester"`
	Grade      string `json:"grade"`
}
