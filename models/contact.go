package models

// ContactInfo is the singleton record shown on the contact page
type ContactInfo struct {
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// DefaultContactInfo is used until the data service returns a stored record.
func DefaultContactInfo() ContactInfo {
	return ContactInfo{
		Email:       "farrellsiwy@gmail.com",
		Phone:       "+6282113906301",
		Location:    "Tangerang Selatan, Indonesia",
		Description: "I'm always open to discussing new projects, creative ideas or opportunities to be part of your vision. Feel free to reach out to me using the form or directly through email or phone.",
	}
}

// ContactPatch is a partial contact update. A nil field keeps its current value;
// a field set to "" clears it.
type ContactPatch struct {
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

// Apply returns c with the fields present in patch overwritten.
func (c ContactInfo) Apply(patch ContactPatch) ContactInfo {
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Location != nil {
		c.Location = *patch.Location
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	return c
}

// ContactMessage is a message submitted through the public contact form
type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=10"`
}
