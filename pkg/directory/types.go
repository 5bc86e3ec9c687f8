package directory

// Config holds user directory connection settings.
type Config struct {
	URL   string
	Token string
}

// userResponse is the directory's user record.
type userResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}
