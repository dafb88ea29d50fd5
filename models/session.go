package models

// User is the identity handle returned by the auth provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session describes who is signed in and whether the initial load is still running
type Session struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	CurrentUser     *User `json:"user,omitempty"`
	IsLoading       bool  `json:"isLoading"`
}
