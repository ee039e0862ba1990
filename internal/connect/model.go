// Package connect handles the public contact form.
package connect

import "time"

// Request is a stored contact-form submission.
type Request struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Purpose   string    `json:"purpose"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Submission is the validated form body.
type Submission struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,min=3,max=100"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// Entry is the admin listing projection.
type Entry struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Purpose   string    `json:"purpose"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
