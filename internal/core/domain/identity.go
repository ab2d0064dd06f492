package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Plan is a subscription tier. The tier is never advanced or downgraded
// locally: it always mirrors the last value read from the subscription
// service (or the one delivered with a login/register response).
type Plan string

const (
	PlanFree  Plan = "free"
	PlanPro   Plan = "pro"
	PlanElite Plan = "elite"
)

// Paid reports whether the plan sits above the free tier.
func (p Plan) Paid() bool {
	return p == PlanPro || p == PlanElite
}

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro || p == PlanElite
}

// Identity is the authenticated member's profile plus the bearer token used
// on authenticated calls. It is the unit persisted in the identity blob.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Plan      Plan      `json:"subscription_plan"`
	Avatar    string    `json:"avatar,omitempty"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns an independent copy so readers never alias manager state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

// IdentityPatch carries a partial identity update. Nil fields are left
// untouched by the merge.
type IdentityPatch struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Plan   *Plan   `json:"subscription_plan,omitempty"`
	Token  *string `json:"token,omitempty"`
}

// Empty reports whether the patch carries no fields at all.
func (p IdentityPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Avatar == nil && p.Plan == nil && p.Token == nil
}

// Apply merges the patch into a copy of the identity and returns it.
func (p IdentityPatch) Apply(identity Identity) Identity {
	if p.Name != nil {
		identity.Name = *p.Name
	}
	if p.Email != nil {
		identity.Email = *p.Email
	}
	if p.Avatar != nil {
		identity.Avatar = *p.Avatar
	}
	if p.Plan != nil {
		identity.Plan = *p.Plan
	}
	if p.Token != nil {
		identity.Token = *p.Token
	}
	return identity
}

// Snapshot is the read view of the session handed to observers and API
// consumers. Loading is true only during the startup validation window.
type Snapshot struct {
	Identity *Identity `json:"identity"`
	Loading  bool      `json:"loading"`
}

// Authenticated reports whether a member is signed in.
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// SubscriptionStatus is the subscription service's answer for the
// current member.
type SubscriptionStatus struct {
	Subscribed bool `json:"subscribed"`
	Plan       Plan `json:"plan"`
}
