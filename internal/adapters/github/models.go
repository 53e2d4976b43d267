package github

// User is a partial GitHub user document
type User struct {
	ID         int64  `json:"id"`
	Login      string `json:"login"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	GravatarID string `json:"gravatar_id"`
	AvatarURL  string `json:"avatar_url"`
	HTMLURL    string `json:"html_url"`
}

// Content is a file entry from the contents API
// Content is base64 with embedded newlines; Encoding is "none" for files over 1MB
type Content struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Size     int64  `json:"size"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
}

// Blob is a git blob from the git data API
type Blob struct {
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// Committer identifies the author of a contents API write
type Committer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PutContentRequest creates a file (no SHA) or updates one (SHA of the version being replaced)
type PutContentRequest struct {
	Message   string     `json:"message"`
	Content   string     `json:"content"`
	SHA       string     `json:"sha,omitempty"`
	Branch    string     `json:"branch,omitempty"`
	Committer *Committer `json:"committer,omitempty"`
}

// PutContentResponse carries the new file sha and the commit that wrote it
type PutContentResponse struct {
	Content struct {
		Path string `json:"path"`
		SHA  string `json:"sha"`
	} `json:"content"`
	Commit struct {
		SHA     string `json:"sha"`
		HTMLURL string `json:"html_url"`
	} `json:"commit"`
}

// Rate is one bucket of the rate_limit document
type Rate struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// RateLimit is the GET /rate_limit document
type RateLimit struct {
	Resources struct {
		Core Rate `json:"core"`
	} `json:"resources"`
}
