package models

// Role is the resolved authorization level of an authenticated caller.
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleCitizen   Role = "citizen"
)

// User links an identity-provider uid to its stored role. Identity (uid,
// email) is owned by the external provider; this record only adds the role.
type User struct {
	UID   string
	Email string
	Role  Role
}
