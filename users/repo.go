package users

// UserRepo stores accounts keyed by normalized email.
type UserRepo interface {
	// Create adds a new user, assigning an ID if none is set. It fails with
	// errors.ErrUserExists when the email is taken.
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(ID string) (*User, error)
	SetLastLogin(email string) error
}
