package models

// User is the current user's identity as supplied by the surrounding
// application's auth collaborator. The engine never refreshes it; it only
// threads the token into remote calls.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"profileImage"`
	Token     string `json:"token"`
}
