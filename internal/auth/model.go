package auth

import (
	"github.com/fastseller/fastseller/internal/money"
)

// User is an account as seen by the rest of the application. WalletBalance
// is always normalized to two decimals and never negative.
type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	FirstName     string  `json:"first_name,omitempty"`
	LastName      string  `json:"last_name,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	ProfileImage  string  `json:"profile_image,omitempty"`
	WalletBalance float64 `json:"walletBalance"`
}

// Session is the single source of "a user is logged in": its presence in the
// store is equivalent to IsAuthenticated.
type Session struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ProfileUpdate is a partial profile change. Nil fields are left unchanged.
// Image is an accepted alias for ProfileImage.
type ProfileUpdate struct {
	Username      *string  `json:"username"`
	Email         *string  `json:"email"`
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	Phone         *string  `json:"phone"`
	ProfileImage  *string  `json:"profile_image"`
	Image         *string  `json:"image"`
	WalletBalance *float64 `json:"walletBalance"`
}

// ensureWallet clamps the wallet balance to a non-negative two-decimal value.
// Applied on every read and write of a user record.
func ensureWallet(u *User) *User {
	if u == nil {
		return nil
	}
	u.WalletBalance = money.Clamp(u.WalletBalance)
	return u
}

// mergeProfile applies the non-nil fields of p onto base.
func mergeProfile(base User, p ProfileUpdate) User {
	out := base
	if p.Username != nil {
		out.Username = *p.Username
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	if p.Phone != nil {
		out.Phone = *p.Phone
	}
	if p.ProfileImage != nil {
		out.ProfileImage = *p.ProfileImage
	} else if p.Image != nil {
		out.ProfileImage = *p.Image
	}
	if p.WalletBalance != nil {
		out.WalletBalance = *p.WalletBalance
	}
	ensureWallet(&out)
	return out
}
