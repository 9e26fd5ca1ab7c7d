// Package authtest provides in-memory stand-ins for the auth stores.
package authtest

import (
	"context"
	"net/http"
	"sync"

	"github.com/frahmantamala/campus-ops/internal/auth"
)

// MembershipStore is a map-backed auth.MembershipStore.
type MembershipStore struct {
	mu    sync.RWMutex
	roles map[string]map[string]auth.ClubRole
}

func NewMembershipStore() *MembershipStore {
	return &MembershipStore{roles: map[string]map[string]auth.ClubRole{}}
}

func (s *MembershipStore) Set(userID, clubID string, role auth.ClubRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roles[userID] == nil {
		s.roles[userID] = map[string]auth.ClubRole{}
	}
	s.roles[userID][clubID] = role
}

func (s *MembershipStore) Remove(userID, clubID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles[userID], clubID)
}

func (s *MembershipStore) ClubRole(_ context.Context, userID, clubID string) (auth.ClubRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles[userID][clubID], nil
}

func (s *MembershipStore) ClubRoles(_ context.Context, userID string, clubIDs []string) (map[string]auth.ClubRole, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]auth.ClubRole{}
	for _, id := range clubIDs {
		if role, ok := s.roles[userID][id]; ok {
			out[id] = role
		}
	}
	return out, nil
}

func Admin(id string) *auth.Actor {
	return &auth.Actor{ID: id, Email: id + "@campus.edu", Name: id, GlobalRole: auth.GlobalRoleAdmin}
}

func Student(id string) *auth.Actor {
	return &auth.Actor{ID: id, Email: id + "@campus.edu", Name: id, GlobalRole: auth.GlobalRoleStudent}
}

// ActorHeader names the request header Inject reads the caller id from.
const ActorHeader = "X-Test-Actor"

// Inject stands in for the token middleware: it puts the actor named by
// ActorHeader into the request context. Requests without the header stay
// anonymous.
func Inject(actors ...*auth.Actor) func(http.Handler) http.Handler {
	byID := make(map[string]*auth.Actor, len(actors))
	for _, a := range actors {
		byID[a.ID] = a
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a, ok := byID[r.Header.Get(ActorHeader)]; ok {
				r = r.WithContext(auth.ContextWithActor(r.Context(), a))
			}
			next.ServeHTTP(w, r)
		})
	}
}
