package permissions

import "blog_system/internal/domain"

// Safe HTTP methods are non-mutating reads, exempt from ownership checks
var safeMethods = map[string]bool{
	"GET":     true, // Reads
	"HEAD":    true, // Header-only reads
	"OPTIONS": true, // Preflight
}

// IsSafeMethod reports whether the HTTP method is a non-mutating read
func IsSafeMethod(method string) bool {
	return safeMethods[method]
}

// CanCreateArticle allows article creation for authenticated HR users only
func CanCreateArticle(actor *domain.User) bool {
	return actor != nil && actor.Role == domain.RoleHR // Nil actor means unauthenticated
}

// CanMutate allows safe operations for anyone and mutations for the owner only.
// Ownership generalizes to "self" for user deletion. A nil owner fails closed:
// a resource whose author was removed is mutable by no one through this check.
func CanMutate(actor *domain.User, ownerID *uint, method string) bool {
	// Reads never require ownership
	if IsSafeMethod(method) {
		return true
	}
	// Mutations require an authenticated actor and a present owner
	if actor == nil || ownerID == nil {
		return false
	}
	return *ownerID == actor.ID // Owner-only mutation
}
