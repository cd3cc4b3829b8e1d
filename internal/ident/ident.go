package ident

// Profile identifies the active user. It is attached as headers to every
// outbound chat request.
type Profile struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Provider supplies the current identity. Implementations must always
// return a usable profile; when nothing is known they return Demo().
type Provider interface {
	Current() Profile
}

// Demo is the fixed identity substituted whenever no real identity is
// available. Sends must never block or fail on missing identity.
func Demo() Profile {
	return Profile{
		UID:         "demo-user",
		Email:       "demo@biochat.local",
		DisplayName: "Demo User",
	}
}

// Static returns a fixed profile, falling back to the demo identity when
// the profile has no UID.
type Static struct {
	Profile Profile
}

func (s Static) Current() Profile {
	if s.Profile.UID == "" {
		return Demo()
	}
	return s.Profile
}
