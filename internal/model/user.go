package model

// User is the authenticated account the timesheet belongs to.
type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// HasRole reports whether the user has any of the given roles.
func (u User) HasRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// AdminOrGIP reports whether the user may edit project-time rows and see
// every project.
func (u User) AdminOrGIP() bool {
	return u.HasRole("admin", "gip")
}

// ExecutorOnly reports whether the user is an executor without any
// privileged role. Such users only see projects they have tasks in.
func (u User) ExecutorOnly() bool {
	return u.HasRole("executor") && !u.HasRole("admin", "gip", "accountant")
}

// AccountantOnly reports whether the user is an accountant without admin
// or GIP rights.
func (u User) AccountantOnly() bool {
	return u.HasRole("accountant") && !u.HasRole("admin", "gip")
}
