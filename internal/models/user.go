package models

import "time"

// Role is a user's access level
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// rank orders roles for permission checks
var roleRank = map[Role]int{
	RoleStudent: 1,
	RoleAdmin:   2,
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants every permission of required
func (r Role) AtLeast(required Role) bool {
	return roleRank[r] >= roleRank[required] && r.Valid()
}

// DeviceType is the student's preferred device for video playback
type DeviceType string

const (
	DeviceAndroid DeviceType = "android"
	DeviceIphone  DeviceType = "iphone"
)

// DefaultDevice is used when a profile has no preference stored
const DefaultDevice = DeviceIphone

// ParseDevice returns the device for s, falling back to DefaultDevice for unknown values
func ParseDevice(s string) DeviceType {
	switch DeviceType(s) {
	case DeviceAndroid, DeviceIphone:
		return DeviceType(s)
	}
	return DefaultDevice
}

// Profile represents a platform user
type Profile struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	AvatarURL    string     `json:"avatarUrl"`
	Role         Role       `json:"role"`
	DeviceType   DeviceType `json:"deviceType"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login
type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	User        *Profile `json:"user"`
}

// UpdateDeviceRequest represents a device preference change
type UpdateDeviceRequest struct {
	DeviceType DeviceType `json:"deviceType" validate:"required,oneof=android iphone"`
}

// DeviceResponse carries the current device preference
type DeviceResponse struct {
	DeviceType DeviceType `json:"deviceType"`
}

// ProfileListResponse is a page of profiles for the admin users screen
type ProfileListResponse struct {
	Items []Profile `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Count int       `json:"count"`
}
