package engine

import "github.com/roach88/primecart/internal/domain"

// Login replaces the session user with the canonical identity for role.
// Role-based permissions are enforced by the view layer, not here.
func (e *Engine) Login(role domain.Role) domain.User {
	e.lockMutation()

	u := domain.IdentityFor(role)
	e.user = &u
	e.save(KeyUser, e.user)

	e.logger.Info("login", "user_id", u.ID, "role", u.Role)
	e.commit(Change{Op: "login", Collections: []string{CollectionUser}, CartOpen: e.cartOpen})
	return u
}

// Logout clears the session user.
func (e *Engine) Logout() {
	e.lockMutation()

	e.user = nil
	e.save(KeyUser, e.user)

	e.logger.Info("logout")
	e.commit(Change{Op: "logout", Collections: []string{CollectionUser}, CartOpen: e.cartOpen})
}
