package auth

// Passwords turns entered passwords into stored form and checks them.
type Passwords interface {
	// Seal returns the value to persist for password.
	Seal(password string) (string, error)
	// Match reports whether password matches the stored value.
	Match(stored, password string) bool
}

// NewPasswords returns the Argon2id policy when hash is true and the
// plain-text policy otherwise. Either policy accepts records written by
// the other, so the setting can be flipped on an existing store.
func NewPasswords(hash bool) Passwords {
	if hash {
		return argonPasswords{}
	}
	return plainPasswords{}
}

// plainPasswords stores passwords as entered and compares them exactly.
type plainPasswords struct{}

func (plainPasswords) Seal(password string) (string, error) {
	return password, nil
}

func (plainPasswords) Match(stored, password string) bool {
	return matchPassword(stored, password)
}

type argonPasswords struct{}

func (argonPasswords) Seal(password string) (string, error) {
	return HashPassword(password)
}

func (argonPasswords) Match(stored, password string) bool {
	return matchPassword(stored, password)
}

// matchPassword compares exactly first so a plain record that happens to
// start with the hash prefix still matches itself.
func matchPassword(stored, password string) bool {
	if stored == password {
		return true
	}
	return IsHash(stored) && VerifyPassword(stored, password)
}
