package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

// Subscription is the stored entitlement record for one user.
type Subscription struct {
	Status string    `json:"status"`
	Since  time.Time `json:"since"`
}

const subscriptionStatusActive = "active"

// SubscriptionStore persists per-user subscription records as small JSON
// values in a diskv key-value store. The store is the single source of
// truth; there is no payment provider round trip on read.
type SubscriptionStore struct {
	d *diskv.Diskv
}

// NewSubscriptionStore opens (or creates) the store under basePath.
func NewSubscriptionStore(basePath string) *SubscriptionStore {
	return &SubscriptionStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 64 * 1024,
	})}
}

// Activate records an active subscription for username, dated now.
func (s *SubscriptionStore) Activate(username string) error {
	sub := Subscription{Status: subscriptionStatusActive, Since: time.Now().UTC()}
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("session: marshal subscription: %w", err)
	}
	if err := s.d.Write(subscriptionKey(username), data); err != nil {
		return fmt.Errorf("session: write subscription: %w", err)
	}
	return nil
}

// Deactivate removes the subscription record for username. Removing a
// record that does not exist is not an error.
func (s *SubscriptionStore) Deactivate(username string) error {
	key := subscriptionKey(username)
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("session: erase subscription: %w", err)
	}
	return nil
}

// Active reports whether username holds an active subscription. A missing
// or unreadable record means not subscribed.
func (s *SubscriptionStore) Active(username string) bool {
	data, err := s.d.Read(subscriptionKey(username))
	if err != nil {
		return false
	}
	var sub Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return false
	}
	return sub.Status == subscriptionStatusActive
}

// Get returns the subscription record for username, or nil when none exists.
func (s *SubscriptionStore) Get(username string) *Subscription {
	data, err := s.d.Read(subscriptionKey(username))
	if err != nil {
		return nil
	}
	var sub Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil
	}
	return &sub
}

func subscriptionKey(username string) string {
	return "sub_" + username + ".json"
}
